package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/bigkaa/goartstore/admin-console/internal/identity"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/menustore"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/navigation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	bundle, err := i18n.Load(testLogger())
	if err != nil {
		t.Fatalf("i18n.Load: %v", err)
	}
	return bundle
}

func testStore() *menustore.Store {
	return menustore.New(16, time.Minute)
}

// fakeIdentity — IdentityService для тестов. При fail операции ведут себя
// как identity.Client при ошибке backend'а: запрашивают переход на errors
// и возвращают значение по умолчанию.
type fakeIdentity struct {
	mu    sync.Mutex
	fail  bool
	user  identity.UserBasicInfo
	roles []identity.Role
	apps  map[string]identity.App
	links map[string]string
	calls []string
}

func (f *fakeIdentity) record(ctx context.Context, op string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	if f.fail {
		navigation.Navigator{}.Navigate(ctx, identity.RouteErrors)
	}
	return f.fail
}

func (f *fakeIdentity) called(op string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == op {
			return true
		}
	}
	return false
}

func (f *fakeIdentity) Logout(ctx context.Context) json.RawMessage {
	if f.record(ctx, "logout") {
		return nil
	}
	return json.RawMessage(`{"ok":true}`)
}

func (f *fakeIdentity) GetLogonUser(ctx context.Context) identity.UserBasicInfo {
	if f.record(ctx, "getLogonUser") {
		return identity.UserBasicInfo{}
	}
	return f.user
}

func (f *fakeIdentity) GetRoleDetail(ctx context.Context) []identity.Role {
	if f.record(ctx, "getRoleDetail") {
		return nil
	}
	return f.roles
}

func (f *fakeIdentity) GetApp(ctx context.Context, routeLink string) identity.App {
	if f.record(ctx, "getApp") {
		return identity.App{}
	}
	return f.apps[routeLink]
}

func (f *fakeIdentity) GetAppRouteLink(ctx context.Context, appID string) string {
	if f.record(ctx, "getAppRouteLink") {
		return ""
	}
	link, ok := f.links[appID]
	if !ok {
		return identity.AppNotFound
	}
	return link
}

// withRequestContext оборачивает обработчик middleware навигации и языка,
// как это делает сервер.
func withRequestContext(next http.HandlerFunc) http.Handler {
	return navigation.Middleware()(i18n.Middleware()(next))
}
