package route

// Options are per-route behavior flags.
type Options struct {
	// ResetTitle stops title composition from collecting the tokens of
	// ancestors once this route's own token is included.
	ResetTitle bool
}

// Option configures a route at declaration time.
type Option func(*Node)

// WithTitle sets a literal title token. Text containing {{field}}
// placeholders is a template evaluated against the route's controller.
func WithTitle(text string) Option {
	return func(n *Node) {
		n.title = TextTitle(text)
	}
}

// WithoutTitle makes the route contribute no title token.
func WithoutTitle() Option {
	return func(n *Node) {
		n.title = Title{kind: TitleNone}
	}
}

// WithTitleFunc computes the title token from the route's controller each
// time the title is evaluated.
func WithTitleFunc(fn func(c *Controller) string) Option {
	return func(n *Node) {
		n.title = Title{kind: TitleFunc, fn: func(c *Controller) []string {
			return []string{fn(c)}
		}}
	}
}

// WithTitleTokens is WithTitleFunc for routes contributing several tokens.
func WithTitleTokens(fn func(c *Controller) []string) Option {
	return func(n *Node) {
		n.title = Title{kind: TitleFunc, fn: fn}
	}
}

// WithTitleCell uses a prebuilt reactive cell as the title token.
func WithTitleCell(cell Cell) Option {
	return func(n *Node) {
		n.title = Title{kind: TitleCell, cell: cell}
	}
}

// WithTitleSpec sets an already constructed Title.
func WithTitleSpec(t Title) Option {
	return func(n *Node) {
		n.title = t
	}
}

// ResetTitle marks the route as a reset boundary for title composition.
func ResetTitle() Option {
	return func(n *Node) {
		n.opts.ResetTitle = true
	}
}

// WithOptions replaces the route's options.
func WithOptions(o Options) Option {
	return func(n *Node) {
		n.opts = o
	}
}

// AsResource marks the route as a resource even without children, so it is
// materialized with an index route.
func AsResource() Option {
	return func(n *Node) {
		n.resource = true
	}
}
