// Пакет identity — HTTP-клиент сессии и авторизации backend'а Admin Console.
// Операции: Logout (DELETE /api/logout), GetLogonUser (GET /api/session),
// GetRoleDetail (POST /api/function/getRoleDetail),
// GetApp / GetAppRouteLink (POST /api/entity/instance).
//
// Клиент никогда не возвращает ошибку вызывающему: любая ошибка транспорта,
// статуса или декодирования уходит в единый обработчик (recoverTo), который
// перенаправляет пользователя на страницу ошибок, логирует операцию и
// возвращает значение по умолчанию.
package identity

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	// ExternalAppPrefix — префикс routeLink внешних приложений;
	// для них приложение ищется по APP_ID (остаток пути после префикса и "/").
	ExternalAppPrefix = "/external-app"
	// AppNotFound — результат GetAppRouteLink для отсутствующего приложения.
	AppNotFound = "appNotFound"
	// appRelationID — RELATION_ID сущности приложения.
	appRelationID = "app"
)

// UserBasicInfo — базовые данные пользователя текущей сессии.
type UserBasicInfo struct {
	UserID      string `json:"userID"`
	UserName    string `json:"userName"`
	DisplayName string `json:"displayName"`
}

// Role — запись роли, возвращается backend'ом как есть.
type Role map[string]any

// App — приложение, найденное по routeLink или APP_ID.
type App struct {
	Name      string `json:"name"`
	RouteLink string `json:"routeLink"`
}

// Client — HTTP-клиент backend'а сессий.
type Client struct {
	httpClient *http.Client
	baseURL    string
	navigator  Navigator
	logger     *slog.Logger
}

// New создаёт клиент.
// baseURL — адрес backend'а (AC_BACKEND_URL).
// caCertPath — путь к CA-сертификату для TLS (пустая строка — стандартный пул).
// timeout — таймаут HTTP-запросов.
// navigator — получатель перенаправления на страницу ошибок (nil — без перенаправления).
func New(
	baseURL string,
	caCertPath string,
	timeout time.Duration,
	navigator Navigator,
	logger *slog.Logger,
) (*Client, error) {
	httpClient := &http.Client{Timeout: timeout}

	if caCertPath != "" {
		tlsConfig, err := buildTLSConfig(caCertPath)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата backend: %w", err)
		}
		httpClient.Transport = &http.Transport{
			TLSClientConfig: tlsConfig,
		}
		logger.Info("CA-сертификат backend добавлен в пул доверия",
			slog.String("ca_cert", caCertPath),
		)
	}

	if navigator == nil {
		navigator = NopNavigator{}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		navigator:  navigator,
		logger:     logger.With(slog.String("component", "identity_client")),
	}, nil
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	caCertPool.AppendCertsFromPEM(caCert)

	return &tls.Config{
		RootCAs: caCertPool,
	}, nil
}

// Logout завершает сессию на backend'е.
// DELETE /api/logout. Ошибка поглощается: возвращается nil.
func (c *Client) Logout(ctx context.Context) json.RawMessage {
	const op = "logout"
	start := time.Now()

	body, err := c.do(ctx, http.MethodDelete, "/api/logout", nil)
	if err != nil {
		return recoverTo[json.RawMessage](ctx, c, op, start, err, nil)
	}
	c.observe(op, outcomeOK, start)

	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.RawMessage(body)
}

// sessionPayload — ответ GET /api/session (используемая часть).
type sessionPayload struct {
	Identity *struct {
		UserBasic *struct {
			UserID      string `json:"USER_ID"`
			UserName    string `json:"USER_NAME"`
			DisplayName string `json:"DISPLAY_NAME"`
		} `json:"userBasic"`
	} `json:"identity"`
}

// GetLogonUser возвращает пользователя текущей сессии.
// GET /api/session, поля identity.userBasic.{USER_ID,USER_NAME,DISPLAY_NAME}.
func (c *Client) GetLogonUser(ctx context.Context) UserBasicInfo {
	const op = "getLogonUser"
	start := time.Now()

	body, err := c.do(ctx, http.MethodGet, "/api/session", nil)
	if err != nil {
		return recoverTo(ctx, c, op, start, err, UserBasicInfo{})
	}

	var session sessionPayload
	if err := json.Unmarshal(body, &session); err != nil {
		return recoverTo(ctx, c, op, start, fmt.Errorf("декодирование сессии: %w", err), UserBasicInfo{})
	}
	if session.Identity == nil || session.Identity.UserBasic == nil {
		return recoverTo(ctx, c, op, start, errNoUserBasic, UserBasicInfo{})
	}
	c.observe(op, outcomeOK, start)

	ub := session.Identity.UserBasic
	return UserBasicInfo{
		UserID:      ub.UserID,
		UserName:    ub.UserName,
		DisplayName: ub.DisplayName,
	}
}

// GetRoleDetail возвращает роли аутентифицированного пользователя.
// POST /api/function/getRoleDetail с пустым телом {}.
func (c *Client) GetRoleDetail(ctx context.Context) []Role {
	const op = "getRoleDetail"
	start := time.Now()

	body, err := c.do(ctx, http.MethodPost, "/api/function/getRoleDetail", struct{}{})
	if err != nil {
		return recoverTo[[]Role](ctx, c, op, start, err, nil)
	}

	var roles []Role
	if err := json.Unmarshal(body, &roles); err != nil {
		return recoverTo[[]Role](ctx, c, op, start, fmt.Errorf("декодирование ролей: %w", err), nil)
	}
	c.observe(op, outcomeOK, start)

	return roles
}

// GetApp возвращает приложение по routeLink.
//
// Для routeLink с префиксом /external-app приложение ищется по APP_ID,
// а RouteLink результата — исходный routeLink. Для остальных — по ROUTE_LINK,
// а RouteLink берётся из ответа backend'а. Отсутствующая сущность даёт App{}.
func (c *Client) GetApp(ctx context.Context, routeLink string) App {
	const op = "getApp"
	start := time.Now()

	external := strings.HasPrefix(routeLink, ExternalAppPrefix)
	var query any = routeLinkQuery{RelationID: appRelationID, RouteLink: routeLink}
	if external {
		query = appIDQuery{RelationID: appRelationID, AppID: externalAppID(routeLink)}
	}

	entity, err := c.fetchEntity(ctx, query)
	if err != nil {
		return recoverTo(ctx, c, op, start, err, App{})
	}
	c.observe(op, outcomeOK, start)

	row, ok := entity.firstApp()
	if !ok {
		return App{}
	}

	app := App{Name: row.Name, RouteLink: row.RouteLink}
	if external {
		app.RouteLink = routeLink
	}
	return app
}

// GetAppRouteLink возвращает routeLink приложения по его appID
// или AppNotFound, если приложения нет.
func (c *Client) GetAppRouteLink(ctx context.Context, appID string) string {
	const op = "getAppRouteLink"
	start := time.Now()

	entity, err := c.fetchEntity(ctx, appIDQuery{RelationID: appRelationID, AppID: appID})
	if err != nil {
		return recoverTo(ctx, c, op, start, err, "")
	}
	c.observe(op, outcomeOK, start)

	row, ok := entity.firstApp()
	if !ok {
		return AppNotFound
	}
	return row.RouteLink
}

// externalAppID извлекает APP_ID из "/external-app/<id>".
func externalAppID(routeLink string) string {
	if len(routeLink) <= len(ExternalAppPrefix)+1 {
		return ""
	}
	return routeLink[len(ExternalAppPrefix)+1:]
}

// do выполняет JSON-запрос и возвращает тело ответа со статусом 2xx.
// payload == nil — запрос без тела.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("сериализация запроса %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("создание запроса %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if cookie := SessionCookie(ctx); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("чтение ответа %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
