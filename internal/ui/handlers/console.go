package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/bigkaa/goartstore/admin-console/internal/identity"
	"github.com/bigkaa/goartstore/admin-console/internal/sidemenu"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/menustore"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/navigation"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/views"
)

// MenuSessionCookie — cookie с идентификатором сессии бокового меню.
const MenuSessionCookie = "ac_menu_session"

// ConsoleHandler — страницы консоли: оболочка, ошибки, выход.
type ConsoleHandler struct {
	identity IdentityService
	bundle   *i18n.Bundle
	store    *menustore.Store
	logger   *slog.Logger
}

// NewConsoleHandler создаёт ConsoleHandler.
func NewConsoleHandler(
	identitySvc IdentityService,
	bundle *i18n.Bundle,
	store *menustore.Store,
	logger *slog.Logger,
) *ConsoleHandler {
	return &ConsoleHandler{
		identity: identitySvc,
		bundle:   bundle,
		store:    store,
		logger:   logger.With(slog.String("component", "ui.console")),
	}
}

// HandleConsole обрабатывает GET /admin/ — оболочка консоли.
// Параметр route — маршрут выбранного приложения.
func (h *ConsoleHandler) HandleConsole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	route := r.URL.Query().Get("route")

	user := h.identity.GetLogonUser(ctx)
	roles := h.identity.GetRoleDetail(ctx)

	var app *identity.App
	if route != "" {
		found := h.identity.GetApp(ctx, route)
		app = &found
	}

	if navigation.Redirect(w, r) {
		return
	}

	sessionID := menuSession(w, r)
	sections := views.Sections()
	snap := h.menuSnapshot(sessionID, views.RowSpecs(sections, route))

	data := views.ConsoleData{
		User:  user,
		Roles: len(roles),
		App:   app,
		Menu: views.SideMenuData{
			Sections:  sections,
			Snapshot:  snap,
			SessionID: sessionID.String(),
			Route:     route,
		},
	}

	renderPage(w, r, h.logger, views.ConsolePage(translator(h.bundle, r), data))
}

// menuSnapshot возвращает сохранённое состояние меню сессии или начальное.
// Активная строка всегда соответствует текущему маршруту.
func (h *ConsoleHandler) menuSnapshot(id uuid.UUID, specs []sidemenu.RowSpec) sidemenu.Snapshot {
	menu := sidemenu.New(specs, sidemenu.NewReportedViewport(sidemenu.ViewportMetrics{}), nil)

	if saved, ok := h.store.Load(id); ok {
		menu.Restore(withActive(saved, specs))
	}
	return menu.Snapshot()
}

// withActive переносит признак Active из описаний строк в копию снимка.
func withActive(snap sidemenu.Snapshot, specs []sidemenu.RowSpec) sidemenu.Snapshot {
	if len(snap.Rows) != len(specs) {
		return snap
	}
	rows := make([]sidemenu.RowState, len(snap.Rows))
	copy(rows, snap.Rows)
	for i := range rows {
		rows[i].Active = specs[i].Active
	}
	snap.Rows = rows
	return snap
}

// HandleErrors обрабатывает GET /admin/errors.
func (h *ConsoleHandler) HandleErrors(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.logger, views.ErrorsPage(translator(h.bundle, r)))
}

// HandleLogout обрабатывает POST /admin/logout: завершает сессию на backend'е,
// забывает состояние меню и отправляет пользователя на главную страницу.
func (h *ConsoleHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	result := h.identity.Logout(r.Context())
	h.logger.Debug("Выход из сессии", slog.Int("response_bytes", len(result)))

	if cookie, err := r.Cookie(MenuSessionCookie); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			h.store.Delete(id)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     MenuSessionCookie,
		Value:    "",
		Path:     navigation.BasePath,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if navigation.Redirect(w, r) {
		return
	}

	if navigation.IsHTMX(r) {
		w.Header().Set(navigation.HeaderHXRedirect, "/")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// menuSession возвращает идентификатор сессии меню из cookie,
// создавая новую сессию при отсутствии или порче cookie.
func menuSession(w http.ResponseWriter, r *http.Request) uuid.UUID {
	if cookie, err := r.Cookie(MenuSessionCookie); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id
		}
	}

	id := uuid.New()
	http.SetCookie(w, &http.Cookie{
		Name:     MenuSessionCookie,
		Value:    id.String(),
		Path:     navigation.BasePath,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
