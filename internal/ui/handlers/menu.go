package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	apierrors "github.com/bigkaa/goartstore/admin-console/internal/api/errors"
	"github.com/bigkaa/goartstore/admin-console/internal/sidemenu"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/menustore"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/views"
)

// Типы событий клиента бокового меню.
const (
	eventViewport  = "viewport"
	eventMove      = "move"
	eventEnter     = "enter"
	eventLeave     = "leave"
	eventLeaveMenu = "leave-menu"
	eventClick     = "click"
	eventClickSub  = "click-sub"
	eventCollapse  = "collapse"
)

const (
	// menuQueueSize — буфер очереди событий одного соединения.
	menuQueueSize = 64
	// menuWriteTimeout — таймаут отправки снимка клиенту.
	menuWriteTimeout = 5 * time.Second
)

var errUnknownEvent = errors.New("неизвестный тип события")

var (
	menuConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ac_menu_connections_active",
			Help: "Количество открытых WebSocket-соединений бокового меню",
		},
	)

	menuEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ac_menu_events_total",
			Help: "Количество событий бокового меню от клиентов",
		},
		[]string{"type"},
	)
)

// menuEvent — событие клиента.
type menuEvent struct {
	Type     string                    `json:"type"`
	Row      int                       `json:"row"`
	X        float64                   `json:"x"`
	Y        float64                   `json:"y"`
	Viewport *sidemenu.ViewportMetrics `json:"viewport,omitempty"`
}

// menuMessage — сообщение сервера со снимком меню.
type menuMessage struct {
	Type     string            `json:"type"`
	Snapshot sidemenu.Snapshot `json:"snapshot"`
}

// MenuHandler — WebSocket бокового меню. Для каждого соединения создаётся
// своё Menu со своим циклом событий; состояние сохраняется в menustore.
type MenuHandler struct {
	store     *menustore.Store
	tolerance float64
	delay     time.Duration
	logger    *slog.Logger
}

// NewMenuHandler создаёт MenuHandler.
// tolerance и delay — параметры hover-intent (AC_MENU_TOLERANCE, AC_MENU_DELAY).
func NewMenuHandler(store *menustore.Store, tolerance float64, delay time.Duration, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		store:     store,
		tolerance: tolerance,
		delay:     delay,
		logger:    logger.With(slog.String("component", "ui.menu")),
	}
}

// HandleMenuSocket обрабатывает GET /admin/menu/ws?session={uuid}&route=...
func (h *MenuHandler) HandleMenuSocket(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.URL.Query().Get("session"))
	if err != nil {
		apierrors.ValidationError(w, "Параметр session должен быть UUID")
		return
	}
	route := r.URL.Query().Get("route")

	// Таймауты http.Server не должны обрывать долгоживущее соединение.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		// Accept уже записал ответ клиенту.
		h.logger.Warn("Ошибка установки WebSocket-соединения",
			slog.String("session", sessionID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	defer conn.CloseNow()

	menuConnectionsActive.Inc()
	defer menuConnectionsActive.Dec()

	logger := h.logger.With(slog.String("session", sessionID.String()))
	logger.Debug("Меню подключено", slog.String("route", route))

	err = h.serve(r.Context(), conn, sessionID, route, logger)
	switch status := websocket.CloseStatus(err); {
	case err == nil:
		conn.Close(websocket.StatusNormalClosure, "")
	case status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway:
		logger.Debug("Меню отключено")
		conn.Close(websocket.StatusNormalClosure, "")
	case errors.Is(err, context.Canceled):
		conn.Close(websocket.StatusGoingAway, "")
	default:
		logger.Warn("Соединение меню прервано", slog.String("error", err.Error()))
		conn.Close(websocket.StatusInternalError, "")
	}
}

// serve обслуживает соединение до его закрытия: чтение событий, цикл
// событий меню и отправка снимков работают в одной errgroup.
func (h *MenuHandler) serve(
	ctx context.Context,
	conn *websocket.Conn,
	sessionID uuid.UUID,
	route string,
	logger *slog.Logger,
) error {
	grp, ctx := errgroup.WithContext(ctx)

	loop := sidemenu.NewEventLoop(menuQueueSize)
	viewport := sidemenu.NewReportedViewport(sidemenu.ViewportMetrics{})
	updates := make(chan sidemenu.Snapshot, 1)
	specs := views.RowSpecs(views.Sections(), route)

	menu := sidemenu.New(specs, viewport, sidemenu.NewLoopScheduler(loop),
		sidemenu.WithTolerance(h.tolerance),
		sidemenu.WithDelay(h.delay),
		sidemenu.WithChangeHook(func(s sidemenu.Snapshot) {
			h.store.Save(sessionID, s)
			publish(updates, s)
		}),
	)

	grp.Go(func() error {
		loop.Run(ctx)
		return nil
	})

	// Начальное состояние: сохранённое для сессии или новое.
	if err := loop.Post(func() {
		if saved, ok := h.store.Load(sessionID); ok {
			menu.Restore(withActive(saved, specs))
		}
		publish(updates, menu.Snapshot())
	}); err != nil {
		return err
	}

	grp.Go(func() error {
		defer loop.Stop()
		return h.readEvents(ctx, conn, loop, menu, viewport, logger)
	})

	grp.Go(func() error {
		return writeSnapshots(ctx, conn, updates)
	})

	return grp.Wait()
}

// readEvents читает события клиента и передаёт их в цикл событий меню.
func (h *MenuHandler) readEvents(
	ctx context.Context,
	conn *websocket.Conn,
	loop *sidemenu.EventLoop,
	menu *sidemenu.Menu,
	viewport *sidemenu.ReportedViewport,
	logger *slog.Logger,
) error {
	for {
		var ev menuEvent
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			return err
		}

		err := loop.Post(func() {
			if err := applyEvent(menu, viewport, ev); err != nil {
				logger.Warn("Событие меню отклонено",
					slog.String("type", ev.Type),
					slog.String("error", err.Error()),
				)
				return
			}
			menuEventsTotal.WithLabelValues(ev.Type).Inc()
		})
		if err != nil {
			return err
		}
	}
}

// applyEvent применяет событие клиента к меню. Выполняется в цикле событий.
func applyEvent(menu *sidemenu.Menu, viewport *sidemenu.ReportedViewport, ev menuEvent) error {
	switch ev.Type {
	case eventViewport:
		if ev.Viewport == nil {
			return fmt.Errorf("%s: нет метрик", ev.Type)
		}
		viewport.Update(*ev.Viewport)
	case eventMove:
		menu.MouseMove(sidemenu.Point{X: ev.X, Y: ev.Y})
	case eventEnter:
		menu.MouseEnterRow(ev.Row)
	case eventLeave:
		menu.MouseLeaveRow(ev.Row)
	case eventLeaveMenu:
		menu.MouseLeaveMenu()
	case eventClick:
		menu.ClickRow(ev.Row)
	case eventClickSub:
		menu.ClickSubItem()
	case eventCollapse:
		menu.Collapse()
	default:
		return fmt.Errorf("%w: %q", errUnknownEvent, ev.Type)
	}
	return nil
}

// writeSnapshots отправляет клиенту снимки меню.
func writeSnapshots(ctx context.Context, conn *websocket.Conn, updates <-chan sidemenu.Snapshot) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap := <-updates:
			wctx, cancel := context.WithTimeout(ctx, menuWriteTimeout)
			err := wsjson.Write(wctx, conn, menuMessage{Type: "snapshot", Snapshot: snap})
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

// publish кладёт снимок в канал ёмкости 1, вытесняя неотправленный.
// Вызывается только из цикла событий.
func publish(ch chan sidemenu.Snapshot, snap sidemenu.Snapshot) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}
