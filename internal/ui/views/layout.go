// Пакет views — HTML-страницы Admin Console на gomponents + htmx.
package views

import (
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"

	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
)

// htmxSrc — htmx подключается с CDN.
const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// page — общий каркас HTML-документа.
func page(tr i18n.Translator, title string, scripts []string, body ...g.Node) g.Node {
	return h.Doctype(
		h.HTML(
			h.Lang(tr.Lang()),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				g.El("title", g.Text(title)),
				h.Link(h.Rel("stylesheet"), h.Href("/admin/static/css/console.css")),
				h.Script(h.Src(htmxSrc), h.Defer()),
				g.Map(scripts, func(src string) g.Node {
					return h.Script(h.Src(src), h.Defer())
				}),
			),
			h.Body(
				hx.Boost("true"),
				g.Group(body),
			),
		),
	)
}

// languageSwitch — форма переключения языка (POST /admin/set-language).
func languageSwitch(tr i18n.Translator) g.Node {
	return g.El("form",
		h.Method("post"),
		h.Action("/admin/set-language"),
		g.El("label", g.Attr("for", "lang-select"), g.Text(tr.T("header.language"))),
		h.Select(
			h.ID("lang-select"),
			h.Name("lang"),
			g.Attr("onchange", "this.form.submit()"),
			languageOption(tr, "en"),
			languageOption(tr, "ru"),
		),
	)
}

func languageOption(tr i18n.Translator, lang string) g.Node {
	return h.Option(
		h.Value(lang),
		g.If(tr.Lang() == lang, h.Selected()),
		g.Text(tr.T("lang."+lang)),
	)
}
