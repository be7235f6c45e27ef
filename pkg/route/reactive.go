package route

import "github.com/vango-dev/routemeta/pkg/reactive"

// Bind registers the controller the route's title is evaluated against.
// Titles depending on this route recompute on their next read.
func (n *Node) Bind(c *Controller) {
	if c == nil {
		c = NewController(nil)
	}
	n.controller.Set(c)
}

// Controller returns the bound controller. Unbound routes have an empty one.
func (n *Node) Controller() *Controller {
	return n.controller.Get()
}

func (n *Node) setupTitle() {
	n.titleOnce.Do(func() {
		n.token = reactive.NewMemo(n.resolveTokens)
		n.fullTitle = reactive.NewMemo(func() string {
			return compose(n)
		})
	})
}

// resolveTokens applies the controller override, then the declared title.
func (n *Node) resolveTokens() []string {
	if n.title.kind == TitleNone {
		return nil
	}
	c := n.Controller()
	switch v := c.Get(TitleTokenField).(type) {
	case bool:
		if !v {
			return nil
		}
	case string:
		if v != "" {
			return []string{v}
		}
	case []string:
		if len(v) > 0 {
			return v
		}
	}
	return n.title.tokens(n, c)
}

// Tokens returns the title tokens this route contributes on its own.
// Function titles are evaluated on every call; other kinds are cached until
// a field they read changes.
func (n *Node) Tokens() []string {
	n.setupTitle()
	if n.title.kind == TitleFunc {
		return n.resolveTokens()
	}
	return n.token.Get()
}

// Title returns the full document title of the route.
func (n *Node) Title() string {
	n.setupTitle()
	return n.fullTitle.Get()
}

// TitleCell exposes the full title as a reactive cell.
func (n *Node) TitleCell() Cell {
	n.setupTitle()
	return n.fullTitle
}

// AddTitleObserver calls fn with the full title now and whenever it
// changes. The returned function removes the observer.
func (n *Node) AddTitleObserver(fn func(title string)) (remove func()) {
	return reactive.Watch(n.Title, fn)
}

// InvalidateTitle forces the route's token and full title to be recomputed,
// for titles that read state outside of controllers and signals.
func (n *Node) InvalidateTitle() {
	n.setupTitle()
	reactive.Batch(func() {
		n.token.Invalidate()
		n.fullTitle.Invalidate()
	})
}
