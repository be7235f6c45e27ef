// Package registry indexes a route tree by full name and publishes the title
// of the active route.
package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/routemeta/internal/errors"
	"github.com/vango-dev/routemeta/pkg/reactive"
	"github.com/vango-dev/routemeta/pkg/route"
)

// Transition describes a completed activation.
type Transition struct {
	From     *route.Node
	To       *route.Node
	Title    string
	Duration time.Duration
}

// Hook observes transitions made through Activate.
type Hook func(ctx context.Context, t Transition)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithHook adds a transition hook. Hooks run in the order they were added.
func WithHook(h Hook) Option {
	return func(r *Registry) {
		r.hooks = append(r.hooks, h)
	}
}

// index is built once and shared by forks.
type index struct {
	root   *route.Node
	once   sync.Once
	byName map[string]*route.Node
	nodes  []*route.Node
}

func (i *index) build() {
	i.once.Do(func() {
		i.byName = make(map[string]*route.Node)
		i.root.Walk(func(n *route.Node) bool {
			i.byName[n.FullName()] = n
			i.nodes = append(i.nodes, n)
			return true
		})
	})
}

// Registry maps full route names to route metadata and tracks the active
// route. A Registry has a single writer: the code that handles transitions.
// Readers of titles may be concurrent.
type Registry struct {
	idx    *index
	hooks  []Hook
	logger *slog.Logger

	active *reactive.Signal[*route.Node]
	title  *reactive.Memo[string]
}

// New returns a registry over the tree rooted at root. The index is built on
// first use, so materialize the tree before the first lookup.
func New(root *route.Node, opts ...Option) *Registry {
	r := &Registry{idx: &index{root: root}}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default().With("component", "registry")
	}
	r.init()
	return r
}

func (r *Registry) init() {
	r.active = reactive.NewSignal[*route.Node](nil)
	r.title = reactive.NewMemo(func() string {
		n := r.active.Get()
		if n == nil {
			return ""
		}
		return n.Title()
	})
}

// Fork returns a registry sharing the index and hooks with its own active
// route, for one client session.
func (r *Registry) Fork() *Registry {
	f := &Registry{idx: r.idx, hooks: r.hooks, logger: r.logger}
	f.init()
	return f
}

// Root returns the indexed tree.
func (r *Registry) Root() *route.Node {
	return r.idx.root
}

// MetaForRoute returns the node registered under a full name such as
// "members.show". A miss is reported by ok, never as an error.
func (r *Registry) MetaForRoute(fullName string) (n *route.Node, ok bool) {
	r.idx.build()
	n, ok = r.idx.byName[fullName]
	return n, ok
}

// Nodes returns every indexed node in pre-order.
func (r *Registry) Nodes() []*route.Node {
	r.idx.build()
	return append([]*route.Node(nil), r.idx.nodes...)
}

// BindController binds c to the named route.
func (r *Registry) BindController(fullName string, c *route.Controller) error {
	n, ok := r.MetaForRoute(fullName)
	if !ok {
		return errors.New("E103").WithRoute(fullName)
	}
	n.Bind(c)
	return nil
}

// SetActive makes n the active route without running hooks.
func (r *Registry) SetActive(n *route.Node) {
	r.active.Set(n)
}

// Active returns the active route, or nil.
func (r *Registry) Active() *route.Node {
	return r.active.Peek()
}

// Activate makes the named route active and runs the transition hooks.
// It returns E103 for an unknown name and leaves the active route unchanged.
func (r *Registry) Activate(ctx context.Context, fullName string) error {
	n, ok := r.MetaForRoute(fullName)
	if !ok {
		r.logger.Warn("transition to unknown route", "route", fullName)
		return errors.New("E103").WithRoute(fullName)
	}

	start := time.Now()
	from := r.active.Peek()
	r.active.Set(n)
	title := r.title.Peek()

	t := Transition{From: from, To: n, Title: title, Duration: time.Since(start)}
	r.logger.Debug("route activated", "route", fullName, "title", title)
	for _, h := range r.hooks {
		h(ctx, t)
	}
	return nil
}

// CurrentTitle returns the full title of the active route, or "" when no
// route is active.
func (r *Registry) CurrentTitle() string {
	return r.title.Get()
}

// TitleCell exposes the current title as a reactive cell.
func (r *Registry) TitleCell() route.Cell {
	return r.title
}

// ObserveTitle calls fn with the current title now and on every change.
// The returned function stops observing.
func (r *Registry) ObserveTitle(fn func(title string)) (stop func()) {
	return reactive.Watch(r.CurrentTitle, fn)
}
