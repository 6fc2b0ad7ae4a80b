package views

import (
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"

	"github.com/bigkaa/goartstore/admin-console/internal/identity"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
)

// ConsoleData — данные страницы консоли.
type ConsoleData struct {
	User  identity.UserBasicInfo
	Roles int
	// App — приложение выбранного маршрута; nil — маршрут не выбран.
	App  *identity.App
	Menu SideMenuData
}

// ConsolePage — оболочка консоли: боковое меню, шапка с пользователем,
// область приложения.
func ConsolePage(tr i18n.Translator, data ConsoleData) g.Node {
	return page(tr, tr.T("console.title"), []string{"/admin/static/js/menu.js"},
		h.Div(
			h.Class("console"),
			SideMenu(tr, data.Menu),
			h.Div(
				h.Class("console-main"),
				consoleHeader(tr, data),
				h.Main(
					h.Class("console-content"),
					appContent(tr, data.App),
				),
			),
		),
	)
}

func consoleHeader(tr i18n.Translator, data ConsoleData) g.Node {
	return h.Header(
		h.Class("console-header"),
		h.Div(
			userLabel(tr, data.User),
			h.Span(h.Class("roles"), g.Text(tr.Tf("header.roles", data.Roles))),
		),
		h.Div(
			languageSwitch(tr),
			h.Button(
				h.Type("button"),
				h.Class("logout"),
				hx.Post("/admin/logout"),
				hx.Swap("none"),
				g.Text(tr.T("header.logout")),
			),
		),
	)
}

func userLabel(tr i18n.Translator, user identity.UserBasicInfo) g.Node {
	name := user.DisplayName
	if name == "" {
		name = user.UserName
	}
	if name == "" {
		return h.Span(h.Class("user"), g.Text(tr.T("header.guest")))
	}
	return h.Span(
		h.Class("user"),
		g.Attr("title", user.UserID),
		g.Text(tr.Tf("header.signedInAs", name)),
	)
}

func appContent(tr i18n.Translator, app *identity.App) g.Node {
	switch {
	case app == nil:
		return h.P(g.Text(tr.T("app.welcome")))
	case app.Name == "":
		return h.P(h.Class("app-not-found"), g.Text(tr.T("app.notFound")))
	default:
		return h.Section(
			h.Class("app"),
			h.Data("route", app.RouteLink),
			h.H1(g.Text(tr.Tf("app.current", app.Name))),
		)
	}
}

// ErrorsPage — страница ошибок, на которую перенаправляет identity-клиент.
func ErrorsPage(tr i18n.Translator) g.Node {
	return page(tr, tr.T("errors.title"), nil,
		h.Div(
			h.Class("errors-page"),
			h.H1(g.Text(tr.T("errors.title"))),
			h.P(g.Text(tr.T("errors.message"))),
			h.A(h.Href("/admin/"), g.Text(tr.T("errors.back"))),
		),
	)
}
