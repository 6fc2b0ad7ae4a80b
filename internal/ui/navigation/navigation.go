// Пакет navigation — перенаправления пользователя, запрошенные сервисами
// во время обработки HTTP-запроса.
//
// Middleware помещает в контекст запроса пустой «навигатор»; identity-клиент
// при ошибке вызывает Navigator.Navigate(ctx, route), и обработчик после
// вызова клиента превращает запрос в редирект (HTML) или в заголовки
// X-Navigate / HX-Redirect (JSON и htmx).
package navigation

import (
	"context"
	"net/http"
	"strings"
	"sync"
)

const (
	// BasePath — префикс маршрутов консоли.
	BasePath = "/admin/"
	// HeaderNavigate — маршрут, на который клиенту следует перейти.
	HeaderNavigate = "X-Navigate"
	// HeaderHXRedirect — редирект для htmx-запросов.
	HeaderHXRedirect = "HX-Redirect"
)

type contextKey struct{}

// pending — маршрут, запрошенный в рамках одного HTTP-запроса.
type pending struct {
	mu    sync.Mutex
	route string
}

// Middleware помещает в контекст запроса хранилище запрошенного маршрута.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithPending(r.Context())))
		})
	}
}

// WithPending возвращает контекст с пустым хранилищем маршрута.
func WithPending(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, &pending{})
}

// Navigator реализует identity.Navigator поверх контекста запроса.
// Вне HTTP-запроса (контекст без WithPending) вызов игнорируется.
type Navigator struct{}

// Navigate запоминает маршрут. Последний вызов побеждает.
func (Navigator) Navigate(ctx context.Context, route string) {
	p, ok := ctx.Value(contextKey{}).(*pending)
	if !ok {
		return
	}
	p.mu.Lock()
	p.route = route
	p.mu.Unlock()
}

// Requested возвращает маршрут, запрошенный в рамках запроса.
func Requested(ctx context.Context) (string, bool) {
	p, ok := ctx.Value(contextKey{}).(*pending)
	if !ok {
		return "", false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.route, p.route != ""
}

// Path — URL маршрута консоли: "errors" → "/admin/errors".
func Path(route string) string {
	return BasePath + strings.TrimLeft(route, "/")
}

// IsHTMX — запрос отправлен htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// Redirect выполняет запрошенный переход для страницы.
// Возвращает false, если перехода не запрашивали.
func Redirect(w http.ResponseWriter, r *http.Request) bool {
	route, ok := Requested(r.Context())
	if !ok {
		return false
	}
	if IsHTMX(r) {
		w.Header().Set(HeaderHXRedirect, Path(route))
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	http.Redirect(w, r, Path(route), http.StatusSeeOther)
	return true
}

// Annotate добавляет к ответу JSON API заголовки запрошенного перехода.
// Тело ответа (значение по умолчанию) пишет вызывающий.
func Annotate(w http.ResponseWriter, r *http.Request) bool {
	route, ok := Requested(r.Context())
	if !ok {
		return false
	}
	w.Header().Set(HeaderNavigate, route)
	if IsHTMX(r) {
		w.Header().Set(HeaderHXRedirect, Path(route))
	}
	return true
}
