package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/goartstore/admin-console/internal/api/errors"
	"github.com/bigkaa/goartstore/admin-console/internal/identity"
)

// APIHandler — JSON API консоли поверх identity-клиента.
type APIHandler struct {
	identity IdentityService
	logger   *slog.Logger
}

// NewAPIHandler создаёт APIHandler.
func NewAPIHandler(identitySvc IdentityService, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		identity: identitySvc,
		logger:   logger.With(slog.String("component", "ui.api")),
	}
}

// routeLinkResponse — ответ GET /admin/api/apps/{appID}/route-link.
type routeLinkResponse struct {
	RouteLink string `json:"routeLink"`
}

// HandleMe обрабатывает GET /admin/api/me.
func (h *APIHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.identity.GetLogonUser(r.Context()))
}

// HandleRoles обрабатывает GET /admin/api/roles.
func (h *APIHandler) HandleRoles(w http.ResponseWriter, r *http.Request) {
	roles := h.identity.GetRoleDetail(r.Context())
	if roles == nil {
		roles = []identity.Role{}
	}
	writeJSON(w, r, roles)
}

// HandleApp обрабатывает GET /admin/api/app?route=...
func (h *APIHandler) HandleApp(w http.ResponseWriter, r *http.Request) {
	route := r.URL.Query().Get("route")
	if route == "" {
		apierrors.ValidationError(w, "Параметр route обязателен")
		return
	}
	writeJSON(w, r, h.identity.GetApp(r.Context(), route))
}

// HandleAppRouteLink обрабатывает GET /admin/api/apps/{appID}/route-link.
func (h *APIHandler) HandleAppRouteLink(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "appID")
	if appID == "" {
		apierrors.ValidationError(w, "Параметр appID обязателен")
		return
	}

	link := h.identity.GetAppRouteLink(r.Context(), appID)
	if link == identity.AppNotFound {
		h.logger.Debug("Приложение не найдено", slog.String("app_id", appID))
	}
	writeJSON(w, r, routeLinkResponse{RouteLink: link})
}
