package router

import (
	"log/slog"

	"github.com/vango-dev/routemeta/pkg/route"
	"github.com/vango-dev/routemeta/pkg/routepath"
)

// Location selects how the client keeps the current URL.
type Location string

const (
	LocationHistory Location = "history"
	LocationHash    Location = "hash"
	LocationNone    Location = "none"
	LocationAuto    Location = "auto"
)

// Config configures ToRouter.
type Config struct {
	// Location is the URL mode. Empty means LocationAuto.
	Location Location

	// Options are passed through untouched for the host.
	Options map[string]any

	// Logger receives the registration log. Nil uses slog.Default.
	Logger *slog.Logger
}

// Params are the path parameters extracted by Match.
type Params map[string]string

// Get returns the named parameter or "".
func (p Params) Get(name string) string {
	return p[name]
}

// Router matches request paths to the terminal routes of a tree.
type Router struct {
	root     *route.Node
	location Location
	options  map[string]any
	tree     *matchNode
	leaves   []*route.Node
}

// ToRouter materializes the tree rooted at root. It fails with E101 when
// root has a parent.
func ToRouter(root *route.Node, cfg Config) (*Router, error) {
	if err := requireRoot(root); err != nil {
		return nil, err
	}
	if cfg.Location == "" {
		cfg.Location = LocationAuto
	}
	r := &Router{
		root:     root,
		location: cfg.Location,
		options:  cfg.Options,
		tree:     newMatchNode(""),
	}
	if err := Map(root, &treeTarget{router: r, scope: root}, cfg.Logger); err != nil {
		return nil, err
	}
	return r, nil
}

// Root returns the tree the router was built from.
func (r *Router) Root() *route.Node { return r.root }

// Location returns the URL mode.
func (r *Router) Location() Location { return r.location }

// Options returns the pass-through options.
func (r *Router) Options() map[string]any { return r.options }

// Leaves returns the terminal routes in registration order.
func (r *Router) Leaves() []*route.Node {
	return append([]*route.Node(nil), r.leaves...)
}

// Match finds the terminal route for a path. The path is canonicalized
// first and parameter values are unescaped; paths that fail
// canonicalization match nothing.
func (r *Router) Match(path string) (*route.Node, Params, bool) {
	canon, err := routepath.Canonicalize(path)
	if err != nil {
		return nil, nil, false
	}
	params := make(Params)
	n, ok := r.tree.match(splitPath(canon.Path), params)
	if !ok {
		return nil, nil, false
	}
	return n, params, true
}

// add registers a leaf under its full path. The first leaf registered for a
// path wins.
func (r *Router) add(leaf *route.Node) {
	m := r.tree.insert(leaf.FullPath())
	if m.route == nil {
		m.route = leaf
	}
	r.leaves = append(r.leaves, leaf)
}

// treeTarget resolves registrations against the node whose children are
// being emitted.
type treeTarget struct {
	router *Router
	scope  *route.Node
}

func (t *treeTarget) Route(name, _ string) {
	if leaf := t.scope.ChildForName(name); leaf != nil {
		t.router.add(leaf)
	}
}

func (t *treeTarget) Resource(name, _ string, nested func(Target)) {
	if child := t.scope.ChildForName(name); child != nil {
		nested(&treeTarget{router: t.router, scope: child})
	}
}
