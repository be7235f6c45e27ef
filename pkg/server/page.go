package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vango-dev/routemeta/pkg/component"
	"github.com/vango-dev/routemeta/pkg/render"
	"github.com/vango-dev/routemeta/pkg/route"
	"github.com/vango-dev/routemeta/pkg/vdom"
)

// feedScript keeps document.title and the widget in sync with the feed. It
// expects ROUTE to hold the page's transition message.
const feedScript = `(function(){` +
	`var el=document.querySelector('[data-routemeta="document-title"]');` +
	`var ws=new WebSocket((location.protocol==="https:"?"wss://":"ws://")+location.host+"` + FeedPath + `");` +
	`ws.onopen=function(){ws.send(JSON.stringify(ROUTE))};` +
	`ws.onmessage=function(e){var m=JSON.parse(e.data);if(m.title===undefined)return;` +
	`document.title=m.title;if(el)el.textContent=m.title}` +
	`})();`

type staticTitle string

func (t staticTitle) CurrentTitle() string { return string(t) }

// page returns the handler rendering the page shell of a route.
func (s *Server) page(fullName string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, _ := s.registry.MetaForRoute(fullName)
		params := urlParams(r, n)

		title, err := s.transition(r.Context(), s.registry.Fork(), fullName, params)
		if err != nil {
			s.logger.Error("page transition failed", "route", fullName, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		msg, err := json.Marshal(clientMessage{Route: fullName, Params: params})
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		widget := component.NewDocumentTitle(staticTitle(title), s.config.Display)
		body := vdom.Div(
			vdom.ID("routemeta"),
			vdom.Data("route", fullName),
			widget,
		)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = s.renderer.RenderPage(w, render.PageData{
			Title:   title,
			Body:    body,
			Scripts: []string{"var ROUTE=" + string(msg) + ";" + feedScript},
		})
		if err != nil {
			s.logger.Error("page render failed", "route", fullName, "error", err)
		}
	})
}

// urlParams collects chi's URL parameters. chi names the catch-all "*";
// it is renamed after the route's wildcard segment.
func urlParams(r *http.Request, n *route.Node) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || len(rctx.URLParams.Keys) == 0 {
		return nil
	}
	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if key == "*" {
			key = wildcardName(n)
		}
		params[key] = rctx.URLParams.Values[i]
	}
	return params
}

func wildcardName(n *route.Node) string {
	if n != nil {
		for _, seg := range strings.Split(n.CleanPath(), "/") {
			if name, ok := strings.CutPrefix(seg, "*"); ok && name != "" {
				return name
			}
		}
	}
	return "wildcard"
}
