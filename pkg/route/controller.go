package route

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vango-dev/routemeta/pkg/reactive"
)

// TitleTokenField is the controller field that overrides a route's title
// token at runtime. A non-empty string replaces the declared token and false
// suppresses it.
const TitleTokenField = "documentTitleToken"

// Formatter joins the collected title tokens into the document title.
// Tokens arrive leaf first.
type Formatter func(tokens []string) string

// DefaultFormatter joins tokens with " - ".
func DefaultFormatter(tokens []string) string {
	return strings.Join(tokens, " - ")
}

// Getter is implemented by values that expose named fields to title
// templates, so nested lookups like "model.name" can cross them.
type Getter interface {
	Get(key string) any
}

// Controller is the runtime context a route's title is evaluated against.
// Every field is a reactive signal: titles that read a field recompute when
// it is set.
type Controller struct {
	mu     sync.Mutex
	fields map[string]*reactive.Signal[any]

	formatter *reactive.Signal[Formatter]
}

// NewController creates a controller with initial field values.
func NewController(fields map[string]any) *Controller {
	c := &Controller{
		fields:    make(map[string]*reactive.Signal[any], len(fields)),
		formatter: reactive.NewSignal[Formatter](nil),
	}
	for k, v := range fields {
		c.fields[k] = reactive.NewSignal(v)
	}
	return c
}

// field returns the signal for key, creating an empty one so that readers of
// a field that is not set yet still get notified when it is.
func (c *Controller) field(key string) *reactive.Signal[any] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.fields[key]
	if !ok {
		s = reactive.NewSignal[any](nil)
		c.fields[key] = s
	}
	return s
}

// Set assigns a field.
func (c *Controller) Set(key string, value any) {
	c.field(key).Set(value)
}

// SetFields assigns several fields, notifying dependents once.
func (c *Controller) SetFields(fields map[string]any) {
	reactive.Batch(func() {
		for k, v := range fields {
			c.field(k).Set(v)
		}
	})
}

// Get reads the value at a dotted path ("name", "model.name"). Segments
// after the first descend through nested controllers, Getters and
// map[string]any values. A missing segment yields nil.
func (c *Controller) Get(path string) any {
	if c == nil {
		return nil
	}
	key, rest, nested := strings.Cut(path, ".")
	value := c.field(key).Get()
	if !nested {
		return value
	}
	return lookup(value, rest)
}

func lookup(value any, path string) any {
	for path != "" {
		var key string
		key, path, _ = strings.Cut(path, ".")
		switch v := value.(type) {
		case Getter:
			value = v.Get(key)
		case map[string]any:
			value = v[key]
		case map[string]string:
			value = v[key]
		default:
			return nil
		}
	}
	return value
}

// String reads the value at path formatted as text. nil reads as "".
func (c *Controller) String(path string) string {
	switch v := c.Get(path).(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Bool reads the value at path as a boolean. Anything but true is false.
func (c *Controller) Bool(path string) bool {
	b, _ := c.Get(path).(bool)
	return b
}

// SetTitleToken overrides the route's declared title token.
func (c *Controller) SetTitleToken(token string) {
	c.Set(TitleTokenField, token)
}

// SuppressTitle makes the route contribute no title token.
func (c *Controller) SuppressTitle() {
	c.Set(TitleTokenField, false)
}

// ClearTitleToken removes a runtime override.
func (c *Controller) ClearTitleToken() {
	c.Set(TitleTokenField, nil)
}

// SetFormatter sets the formatter used for titles of this route and of every
// descendant that has no nearer formatter.
func (c *Controller) SetFormatter(f Formatter) {
	c.formatter.Set(f)
}

// Formatter returns the controller's formatter, or nil.
func (c *Controller) Formatter() Formatter {
	if c == nil {
		return nil
	}
	return c.formatter.Get()
}
