// language.go — обработчик переключения языка UI.
package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/navigation"
)

// HandleSetLanguage обрабатывает POST /admin/set-language.
// Устанавливает cookie "lang" и перенаправляет обратно.
// Параметр lang: "en" или "ru" (из query или form).
func HandleSetLanguage(w http.ResponseWriter, r *http.Request) {
	lang := r.FormValue("lang")
	if !i18n.IsSupported(lang) {
		lang = i18n.DefaultLang
	}

	http.SetCookie(w, &http.Cookie{
		Name:     i18n.LangCookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})

	http.Redirect(w, r, backTarget(r), http.StatusSeeOther)
}

// backTarget — путь страницы из Referer, если она на этом же хосте.
// Иначе — корень консоли.
func backTarget(r *http.Request) string {
	referer := r.Header.Get("Referer")
	if referer == "" {
		return navigation.BasePath
	}

	u, err := url.Parse(referer)
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return navigation.BasePath
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return navigation.BasePath
	}

	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
