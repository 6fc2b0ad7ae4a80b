// Пакет handlers — HTTP-обработчики Admin Console: страницы консоли,
// JSON API поверх identity-клиента, WebSocket бокового меню, health.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	g "maragu.dev/gomponents"

	"github.com/bigkaa/goartstore/admin-console/internal/identity"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/navigation"
)

// IdentityService — операции identity-клиента, используемые консолью.
// Ошибки не возвращаются: клиент сам запрашивает переход на страницу ошибок.
type IdentityService interface {
	Logout(ctx context.Context) json.RawMessage
	GetLogonUser(ctx context.Context) identity.UserBasicInfo
	GetRoleDetail(ctx context.Context) []identity.Role
	GetApp(ctx context.Context, routeLink string) identity.App
	GetAppRouteLink(ctx context.Context, appID string) string
}

// renderPage пишет HTML-страницу; ошибка рендеринга логируется.
func renderPage(w http.ResponseWriter, r *http.Request, logger *slog.Logger, node g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := node.Render(w); err != nil {
		logger.Error("Ошибка рендеринга страницы",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
	}
}

// translator возвращает переводчик для языка запроса.
func translator(bundle *i18n.Bundle, r *http.Request) i18n.Translator {
	return bundle.For(i18n.LangFromContext(r.Context()))
}

// writeJSON пишет значение ответа API. Если identity-клиент запросил
// переход, он передаётся в заголовках, а тело содержит значение по умолчанию.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	navigation.Annotate(w, r)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
