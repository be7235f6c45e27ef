package router

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vango-dev/routemeta/pkg/route"
)

// HandlerFactory returns the handler serving the route with the given full
// name, such as "members.show".
type HandlerFactory func(fullName string) http.Handler

// ChiTarget registers routes as GET handlers on a chi.Router. Resources
// become sub-routers.
type ChiTarget struct {
	mux     chi.Router
	prefix  string
	handler HandlerFactory
}

// NewChiTarget returns a target registering on mux.
func NewChiTarget(mux chi.Router, handler HandlerFactory) *ChiTarget {
	return &ChiTarget{mux: mux, handler: handler}
}

// Mount maps the tree rooted at root onto mux.
func Mount(mux chi.Router, root *route.Node, handler HandlerFactory, logger *slog.Logger) error {
	if err := requireRoot(root); err != nil {
		return err
	}
	return Map(root, NewChiTarget(mux, handler), logger)
}

// Route implements Target.
func (t *ChiTarget) Route(name, path string) {
	t.mux.Method(http.MethodGet, ChiPattern(path), t.handler(t.fullName(name)))
}

// Resource implements Target. A resource mounted at "/" shares its
// parent's router.
func (t *ChiTarget) Resource(name, path string, nested func(Target)) {
	sub := func(r chi.Router) {
		nested(&ChiTarget{mux: r, prefix: t.fullName(name), handler: t.handler})
	}
	if route.CleanPath(path) == "" {
		t.mux.Group(sub)
		return
	}
	t.mux.Route(ChiPattern(path), sub)
}

func (t *ChiTarget) fullName(name string) string {
	if t.prefix == "" {
		return name
	}
	return t.prefix + "." + name
}

// ChiPattern converts a route path to chi syntax: ":id" becomes "{id}" and
// a "*name" segment becomes "*".
func ChiPattern(path string) string {
	segments := splitPath(path)
	for i, seg := range segments {
		if strings.HasPrefix(seg, "*") {
			segments[i] = "*"
			segments = segments[:i+1]
			break
		}
		if strings.HasPrefix(seg, ":") {
			segments[i] = "{" + seg[1:] + "}"
		}
	}
	return "/" + strings.Join(segments, "/")
}
