package views

import (
	"fmt"
	"net/url"
	"strconv"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/bigkaa/goartstore/admin-console/internal/sidemenu"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
)

// MenuItem — пункт подменю.
type MenuItem struct {
	TitleKey  string
	RouteLink string
}

// MenuSection — строка бокового меню.
type MenuSection struct {
	TitleKey  string
	Icon      string
	RouteLink string
	Items     []MenuItem
	// Active — раздел по умолчанию, если маршрут не выбран.
	Active bool
}

// Sections возвращает статический список строк меню консоли.
func Sections() []MenuSection {
	return []MenuSection{
		{TitleKey: "menu.home", Icon: "⌂", RouteLink: "/"},
		{
			TitleKey: "menu.identity", Icon: "☺", Active: true,
			Items: []MenuItem{
				{"menu.identity.users", "/identity/users"},
				{"menu.identity.roles", "/identity/roles"},
				{"menu.identity.groups", "/identity/groups"},
				{"menu.identity.permissions", "/identity/permissions"},
				{"menu.identity.sessions", "/identity/sessions"},
				{"menu.identity.serviceAccounts", "/identity/service-accounts"},
				{"menu.identity.audit", "/identity/audit"},
			},
		},
		{
			TitleKey: "menu.apps", Icon: "▦",
			Items: []MenuItem{
				{"menu.apps.catalog", "/apps/catalog"},
				{"menu.apps.routes", "/apps/routes"},
				{"menu.apps.external", "/apps/external"},
				{"menu.apps.settings", "/apps/settings"},
			},
		},
		{
			TitleKey: "menu.system", Icon: "⚙",
			Items: []MenuItem{
				{"menu.system.health", "/system/health"},
				{"menu.system.metrics", "/system/metrics"},
				{"menu.system.config", "/system/config"},
				{"menu.system.about", "/system/about"},
			},
		},
	}
}

// RowSpecs переводит разделы в описания строк меню. Активным становится
// раздел, содержащий route; если такого нет — раздел по умолчанию.
func RowSpecs(sections []MenuSection, route string) []sidemenu.RowSpec {
	current := sectionForRoute(sections, route)

	specs := make([]sidemenu.RowSpec, len(sections))
	for i, s := range sections {
		active := s.Active
		if current >= 0 {
			active = i == current
		}
		specs[i] = sidemenu.RowSpec{
			Height: sidemenu.RowHeight(len(s.Items)),
			Active: active,
		}
	}
	return specs
}

func sectionForRoute(sections []MenuSection, route string) int {
	if route == "" {
		return -1
	}
	for i, s := range sections {
		if s.RouteLink == route {
			return i
		}
		for _, item := range s.Items {
			if item.RouteLink == route {
				return i
			}
		}
	}
	return -1
}

// SideMenuData — данные для рендеринга бокового меню.
type SideMenuData struct {
	Sections  []MenuSection
	Snapshot  sidemenu.Snapshot
	SessionID string
	Route     string
}

// SideMenu рендерит боковое меню в состоянии снимка. Дальнейшие изменения
// приходят снимками по WebSocket (static/js/menu.js).
func SideMenu(tr i18n.Translator, data SideMenuData) g.Node {
	return h.Nav(
		h.ID("side-menu"),
		h.Class(menuClass(data.Snapshot)),
		h.Data("session", data.SessionID),
		h.Data("route", data.Route),
		h.Button(
			h.Type("button"),
			h.Class("toggle"),
			g.Attr("title", tr.T("menu.toggle")),
			g.Text("☰"),
		),
		h.Ul(
			h.Class("dk-menu-list"),
			g.Group(menuRows(tr, data)),
		),
	)
}

func menuRows(tr i18n.Translator, data SideMenuData) []g.Node {
	rows := make([]g.Node, 0, len(data.Sections))
	for i, section := range data.Sections {
		var state sidemenu.RowState
		if i < len(data.Snapshot.Rows) {
			state = data.Snapshot.Rows[i]
		}
		rows = append(rows, menuRow(tr, i, section, state))
	}
	return rows
}

func menuRow(tr i18n.Translator, index int, section MenuSection, state sidemenu.RowState) g.Node {
	return h.Li(
		h.Data("row", strconv.Itoa(index)),
		h.Class(rowClass(state)),
		h.Span(h.Class("row-icon"), g.Text(section.Icon)),
		h.Span(h.Class("row-label"),
			g.If(len(section.Items) == 0,
				h.A(h.Href(consoleLink(section.RouteLink)), g.Text(tr.T(section.TitleKey))),
			),
			g.If(len(section.Items) > 0, g.Text(tr.T(section.TitleKey))),
		),
		g.If(len(section.Items) > 0, g.Group([]g.Node{
			h.Div(
				h.Class("submenu-arrow"),
				g.Attr("style", arrowStyle(state)),
			),
			h.Div(
				h.Class("submenu"),
				g.Attr("style", submenuStyle(state)),
				h.Ul(g.Map(section.Items, func(item MenuItem) g.Node {
					return h.Li(h.A(h.Href(consoleLink(item.RouteLink)), g.Text(tr.T(item.TitleKey))))
				})),
			),
		})),
	)
}

func menuClass(snap sidemenu.Snapshot) string {
	if snap.Collapsed {
		return "side-menu collapsed"
	}
	return "side-menu"
}

func rowClass(state sidemenu.RowState) string {
	class := "menu-row"
	if state.Active {
		class += " active"
	}
	if state.IsSubMenuShow {
		class += " open"
	}
	return class
}

// submenuStyle — inline-стиль подменю по геометрии строки (rem).
func submenuStyle(state sidemenu.RowState) string {
	display := sidemenu.VisibilityNone
	if state.IsSubMenuShow && state.Visible != "" {
		display = state.Visible
	}
	style := fmt.Sprintf("display: %s; height: %.2frem;", display, state.Height)
	if state.Top != nil {
		style += fmt.Sprintf(" top: %.2frem; bottom: auto;", *state.Top)
	}
	return style
}

func arrowStyle(state sidemenu.RowState) string {
	display := sidemenu.VisibilityNone
	if state.IsSubMenuShow && state.Visible != "" {
		display = state.Visible
	}
	return fmt.Sprintf("display: %s; top: %.2frem;", display, state.ArrowTop)
}

// consoleLink — ссылка консоли на маршрут приложения.
func consoleLink(route string) string {
	if route == "" || route == "/" {
		return "/admin/"
	}
	return "/admin/?route=" + url.QueryEscape(route)
}
