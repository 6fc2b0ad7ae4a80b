package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/bigkaa/goartstore/admin-console/internal/sidemenu"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/menustore"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/views"
)

func setupMenuServer(t *testing.T) (*httptest.Server, *menustore.Store) {
	t.Helper()
	store := testStore()
	h := NewMenuHandler(store, sidemenu.Tolerance, sidemenu.Delay, testLogger())

	srv := httptest.NewServer(http.HandlerFunc(h.HandleMenuSocket))
	t.Cleanup(srv.Close)
	return srv, store
}

func dialMenu(t *testing.T, srv *httptest.Server, session string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/menu/ws?session=" + session

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() {
		conn.Close(websocket.StatusNormalClosure, "test complete")
	})
	return conn
}

// readUntil читает снимки, пока pred не вернёт true.
func readUntil(t *testing.T, conn *websocket.Conn, pred func(sidemenu.Snapshot) bool) sidemenu.Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for {
		var msg menuMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			t.Fatalf("чтение снимка: %v", err)
		}
		if msg.Type != "snapshot" {
			t.Fatalf("type = %q, ожидается snapshot", msg.Type)
		}
		if pred(msg.Snapshot) {
			return msg.Snapshot
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, ev menuEvent) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wsjson.Write(ctx, conn, ev); err != nil {
		t.Fatalf("отправка события: %v", err)
	}
}

func TestMenuSocket_Events(t *testing.T) {
	srv, store := setupMenuServer(t)
	id := uuid.New()
	conn := dialMenu(t, srv, id.String())

	initial := readUntil(t, conn, func(sidemenu.Snapshot) bool { return true })
	if len(initial.Rows) != len(views.Sections()) {
		t.Fatalf("строк = %d, ожидается %d", len(initial.Rows), len(views.Sections()))
	}
	if initial.ActiveRow != -1 || initial.Collapsed {
		t.Errorf("начальный снимок = %+v", initial)
	}

	send(t, conn, menuEvent{Type: eventViewport, Viewport: &sidemenu.ViewportMetrics{
		RootFontSize: 16,
		MenuBounds:   sidemenu.Rect{Width: 200, Height: 800},
	}})
	send(t, conn, menuEvent{Type: eventClick, Row: 1})
	readUntil(t, conn, func(s sidemenu.Snapshot) bool { return s.Rows[1].IsSubMenuShow })

	// Неизвестное событие отклоняется, соединение остаётся открытым.
	send(t, conn, menuEvent{Type: "bogus"})
	send(t, conn, menuEvent{Type: eventCollapse})
	readUntil(t, conn, func(s sidemenu.Snapshot) bool { return s.Collapsed })

	saved, ok := store.Load(id)
	if !ok {
		t.Fatal("состояние меню не сохранено")
	}
	if !saved.Collapsed || !saved.Rows[1].IsSubMenuShow {
		t.Errorf("сохранённый снимок = %+v", saved)
	}
}

func TestMenuSocket_RestoresSession(t *testing.T) {
	srv, store := setupMenuServer(t)
	id := uuid.New()

	specs := views.RowSpecs(views.Sections(), "")
	menu := sidemenu.New(specs, sidemenu.NewReportedViewport(sidemenu.ViewportMetrics{}), nil)
	menu.Collapse()
	store.Save(id, menu.Snapshot())

	conn := dialMenu(t, srv, id.String())

	got := readUntil(t, conn, func(sidemenu.Snapshot) bool { return true })
	if !got.Collapsed {
		t.Error("компактный режим не восстановлен при переподключении")
	}
}

func TestMenuSocket_InvalidSession(t *testing.T) {
	srv, _ := setupMenuServer(t)

	resp, err := http.Get(srv.URL + "/admin/menu/ws?session=not-a-uuid")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, ожидается 400", resp.StatusCode)
	}
}

func TestApplyEvent(t *testing.T) {
	specs := views.RowSpecs(views.Sections(), "")
	viewport := sidemenu.NewReportedViewport(sidemenu.ViewportMetrics{})
	menu := sidemenu.New(specs, viewport, nil)

	if err := applyEvent(menu, viewport, menuEvent{Type: eventViewport, Viewport: &sidemenu.ViewportMetrics{RootFontSize: 10}}); err != nil {
		t.Fatalf("viewport: %v", err)
	}
	if viewport.RootFontSize() != 10 {
		t.Errorf("RootFontSize = %v", viewport.RootFontSize())
	}

	if err := applyEvent(menu, viewport, menuEvent{Type: eventViewport}); err == nil {
		t.Error("viewport без метрик должен отклоняться")
	}

	if err := applyEvent(menu, viewport, menuEvent{Type: eventCollapse}); err != nil {
		t.Fatal(err)
	}
	if !menu.Collapsed() {
		t.Error("collapse не применён")
	}

	if err := applyEvent(menu, viewport, menuEvent{Type: eventClick, Row: 2}); err != nil {
		t.Fatal(err)
	}
	if row, ok := menu.ActiveRow(); !ok || row != 2 {
		t.Errorf("ActiveRow = %d, %v; ожидается 2", row, ok)
	}

	if err := applyEvent(menu, viewport, menuEvent{Type: eventClickSub}); err != nil {
		t.Fatal(err)
	}
	if r, _ := menu.Row(2); r.Visible != sidemenu.VisibilityNone {
		t.Errorf("Visible = %q после click-sub", r.Visible)
	}

	err := applyEvent(menu, viewport, menuEvent{Type: "bogus"})
	if !errors.Is(err, errUnknownEvent) {
		t.Errorf("err = %v, ожидается errUnknownEvent", err)
	}
}

func TestPublish_LatestWins(t *testing.T) {
	ch := make(chan sidemenu.Snapshot, 1)

	publish(ch, sidemenu.Snapshot{ActiveRow: 1})
	publish(ch, sidemenu.Snapshot{ActiveRow: 2})

	if got := <-ch; got.ActiveRow != 2 {
		t.Errorf("ActiveRow = %d, ожидается 2", got.ActiveRow)
	}
	select {
	case s := <-ch:
		t.Errorf("лишний снимок %+v", s)
	default:
	}
}
