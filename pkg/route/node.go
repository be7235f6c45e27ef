package route

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vango-dev/routemeta/internal/errors"
	"github.com/vango-dev/routemeta/pkg/reactive"
)

// Node is the metadata of one declared route or resource.
type Node struct {
	name      string
	path      string
	cleanPath string
	title     Title
	opts      Options

	parent   *Node
	children []*Node
	byName   map[string]*Node
	byPath   map[string]*Node
	resource bool

	// mu guards the cached derived fields below.
	mu       sync.Mutex
	fullName string
	fullPath string
	root     *Node
	cached   bool

	controller *reactive.Signal[*Controller]

	titleOnce sync.Once
	token     *reactive.Memo[[]string]
	fullTitle *reactive.Memo[string]
}

// Route declares a route from a "name" or "name@path" spec.
// An empty spec declares the application root.
// It panics with an E100 error if spec is invalid; use New to get the
// error instead.
func Route(spec string, opts ...Option) *Node {
	n, err := New(spec, opts...)
	if err != nil {
		panic(err)
	}
	return n
}

// Root declares the application root.
func Root(opts ...Option) *Node {
	return Route("", opts...)
}

// New declares a route, returning an error for an invalid spec.
func New(spec string, opts ...Option) (*Node, error) {
	name, path, err := Parse(spec)
	if err != nil {
		return nil, err
	}
	n := &Node{
		name:       name,
		path:       path,
		cleanPath:  CleanPath(path),
		byName:     make(map[string]*Node),
		byPath:     make(map[string]*Node),
		resource:   spec == "",
		controller: reactive.NewSignal(NewController(nil)),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Of coerces v into a node: a *Node is returned unchanged and a string is
// parsed as a route spec.
func Of(v any) (*Node, error) {
	switch v := v.(type) {
	case *Node:
		return v, nil
	case string:
		return New(v)
	case nil:
		return New("")
	default:
		return nil, errors.New("E100").WithRoute(fmt.Sprintf("%T", v))
	}
}

// Routes attaches children in order and marks n as a resource.
// With no arguments it only marks n as a resource. It panics with an E102
// error if a child's name or path is already taken by a sibling.
func (n *Node) Routes(children ...*Node) *Node {
	n.resource = true
	for _, child := range children {
		if err := n.attach(child); err != nil {
			panic(err)
		}
	}
	return n
}

// Add attaches a child, returning an error instead of panicking.
func (n *Node) Add(child *Node) error {
	n.resource = true
	return n.attach(child)
}

func (n *Node) attach(child *Node) error {
	if child == nil {
		return errors.New("E100").WithRoute(n.FullName() + ".<nil>")
	}
	if child.parent != nil {
		return errors.New("E102").
			WithRoute(child.name).
			WithDetail(fmt.Sprintf("route %q already belongs to %q", child.name, child.parent.FullName()))
	}
	if _, dup := n.byName[child.name]; dup {
		return errors.New("E102").
			WithRoute(child.name).
			WithDetail(fmt.Sprintf("%q already has a child named %q", n.FullName(), child.name))
	}
	if _, dup := n.byPath[child.cleanPath]; dup {
		return errors.New("E102").
			WithRoute(child.name).
			WithDetail(fmt.Sprintf("%q already has a child with path %q", n.FullName(), child.path))
	}

	child.parent = n
	n.children = append(n.children, child)
	n.byName[child.name] = child
	n.byPath[child.cleanPath] = child
	child.forget()
	return nil
}

// forget drops cached names and paths in the subtree rooted at n.
func (n *Node) forget() {
	n.mu.Lock()
	n.cached = false
	n.mu.Unlock()
	for _, c := range n.children {
		c.forget()
	}
}

// EnsureIndex gives a resource an index child if it has none and returns
// the index child. A synthesized index becomes the first child. It returns
// nil for routes that are not resources.
func (n *Node) EnsureIndex() (*Node, error) {
	if !n.resource {
		return nil, nil
	}
	if idx := n.ChildIndexRoute(); idx != nil {
		return idx, nil
	}
	idx := Route(IndexName)
	if err := n.attach(idx); err != nil {
		return nil, err
	}
	copy(n.children[1:], n.children[:len(n.children)-1])
	n.children[0] = idx
	return idx, nil
}

// Name returns the route name.
func (n *Node) Name() string { return n.name }

// Path returns the path as declared.
func (n *Node) Path() string { return n.path }

// CleanPath returns the path without leading and trailing slash.
func (n *Node) CleanPath() string { return n.cleanPath }

// TitleSpec returns the declared title.
func (n *Node) TitleSpec() Title { return n.title }

// Options returns the route options.
func (n *Node) Options() Options { return n.opts }

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes in declaration order.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// IsResource reports whether the route has or may have children.
func (n *Node) IsResource() bool { return n.resource }

// IsIndex reports whether the clean path is empty.
func (n *Node) IsIndex() bool { return n.cleanPath == "" }

// IsIndexRoute reports whether n is the index route of its parent resource.
func (n *Node) IsIndexRoute() bool { return !n.resource && n.IsIndex() }

// IsCatchAll reports whether n is a wildcard route.
func (n *Node) IsCatchAll() bool { return n.cleanPath == wildcardSegment }

// ChildForPath returns the direct child with the given path.
func (n *Node) ChildForPath(path string) *Node {
	return n.byPath[CleanPath(path)]
}

// ChildForName returns the direct child with the given name.
func (n *Node) ChildForName(name string) *Node {
	return n.byName[name]
}

// ChildIndexRoute returns the index child.
func (n *Node) ChildIndexRoute() *Node {
	return n.ChildForPath("/")
}

// FullName returns the dot-joined names from below the root to n, for
// example "members.show". The root's full name is its own name.
func (n *Node) FullName() string {
	n.derive()
	return n.fullName
}

// FullPath returns the slash-joined clean paths from the root to n, for
// example "/users/:user_id".
func (n *Node) FullPath() string {
	n.derive()
	return n.fullPath
}

// Root returns the topmost ancestor.
func (n *Node) Root() *Node {
	n.derive()
	return n.root
}

func (n *Node) derive() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cached {
		return
	}

	var names, paths []string
	cur := n
	for ; cur.parent != nil; cur = cur.parent {
		names = append(names, cur.name)
		if cur.cleanPath != "" {
			paths = append(paths, cur.cleanPath)
		}
	}
	reverse(names)
	reverse(paths)

	n.root = cur
	if n.parent == nil {
		n.fullName = n.name
	} else {
		n.fullName = strings.Join(names, ".")
	}
	n.fullPath = "/" + strings.Join(paths, "/")
	n.cached = true
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Walk visits n and its descendants in declaration order. Returning false
// from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Depth returns the number of ancestors.
func (n *Node) Depth() int {
	d := 0
	for cur := n.parent; cur != nil; cur = cur.parent {
		d++
	}
	return d
}

// String returns "fullName[fullPath]".
func (n *Node) String() string {
	return n.FullName() + "[" + n.FullPath() + "]"
}
