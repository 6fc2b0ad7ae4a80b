// Пакет static — встроенные статические ресурсы Admin Console:
// стили консоли и клиентская часть бокового меню (WebSocket).
package static

import (
	"embed"
	"net/http"
)

//go:embed css/console.css js/menu.js
var content embed.FS

// FileSystem возвращает http.FileSystem для обработки запросов к /admin/static/*.
func FileSystem() http.FileSystem {
	return http.FS(content)
}
