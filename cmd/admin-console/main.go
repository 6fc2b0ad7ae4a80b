// Точка входа Admin Console — веб-консоль администратора поверх backend'а
// сессий. Команда serve загружает конфигурацию, создаёт identity-клиент,
// запускает мониторинг backend'а (topologymetrics) и HTTP-сервер с
// graceful shutdown. Остальные команды — диагностика backend'а из CLI.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
