// recover.go — единая политика обработки ошибок клиента:
// перенаправление на страницу ошибок, лог, метрика, значение по умолчанию.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// RouteErrors — маршрут страницы ошибок.
const RouteErrors = "errors"

var errNoUserBasic = errors.New("в ответе /api/session нет identity.userBasic")

// Navigator — перенаправление пользователя на маршрут приложения.
type Navigator interface {
	Navigate(ctx context.Context, route string)
}

// NavigatorFunc — адаптер функции к Navigator.
type NavigatorFunc func(ctx context.Context, route string)

// Navigate вызывает f(ctx, route).
func (f NavigatorFunc) Navigate(ctx context.Context, route string) {
	f(ctx, route)
}

// NopNavigator не выполняет перенаправлений (CLI, фоновые вызовы).
type NopNavigator struct{}

// Navigate ничего не делает.
func (NopNavigator) Navigate(context.Context, string) {}

// StatusError — ответ backend'а со статусом вне 2xx.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: статус %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// recoverTo обрабатывает ошибку операции op и возвращает def.
func recoverTo[T any](ctx context.Context, c *Client, op string, start time.Time, err error, def T) T {
	c.navigator.Navigate(ctx, RouteErrors)

	attrs := []slog.Attr{
		slog.String("operation", op),
		slog.String("error", err.Error()),
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		attrs = append(attrs, slog.Int("status", statusErr.StatusCode))
	}
	c.logger.LogAttrs(ctx, slog.LevelError, "Ошибка запроса к backend", attrs...)

	c.observe(op, outcomeRecovered, start)
	return def
}

type sessionCookieKey struct{}

// WithSessionCookie сохраняет в контексте заголовок Cookie входящего запроса;
// клиент передаёт его backend'у.
func WithSessionCookie(ctx context.Context, cookie string) context.Context {
	return context.WithValue(ctx, sessionCookieKey{}, cookie)
}

// SessionCookie возвращает Cookie, сохранённый WithSessionCookie.
func SessionCookie(ctx context.Context) string {
	cookie, _ := ctx.Value(sessionCookieKey{}).(string)
	return cookie
}
