// session.go — передача сессии пользователя backend'у.
// Заголовок Cookie входящего запроса сохраняется в контексте и
// пробрасывается identity-клиентом во все запросы к backend'у.
package middleware

import (
	"net/http"

	"github.com/bigkaa/goartstore/admin-console/internal/identity"
)

// SessionCookie возвращает middleware, сохраняющий Cookie запроса в контексте.
func SessionCookie() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie := r.Header.Get("Cookie")
			if cookie == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := identity.WithSessionCookie(r.Context(), cookie)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
