package render

import (
	"io"

	"github.com/vango-dev/routemeta/pkg/vdom"
)

// PageData contains everything needed to render a complete HTML page.
type PageData struct {
	// Title is the document title.
	Title string

	// Body is the page content.
	Body *vdom.VNode

	// Lang defaults to "en".
	Lang string

	// Scripts are inline scripts appended to the body.
	Scripts []string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	var scripts []*vdom.VNode
	for _, s := range page.Scripts {
		scripts = append(scripts, vdom.Script(vdom.Raw(s)))
	}

	doc := vdom.Html(vdom.Lang(lang),
		vdom.Head(
			vdom.Meta(vdom.Charset("utf-8")),
			vdom.Title(page.Title),
		),
		vdom.Body(page.Body, scripts),
	)

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	return r.RenderToWriter(w, doc)
}
