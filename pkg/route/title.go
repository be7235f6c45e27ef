package route

import (
	"regexp"
	"strings"
	"unicode"
)

// TitleKind discriminates the ways a route can declare its title token.
type TitleKind uint8

const (
	// TitleDefault derives the token from the route name.
	TitleDefault TitleKind = iota
	// TitleNone contributes no token.
	TitleNone
	// TitleText is a literal token.
	TitleText
	// TitleTemplate substitutes {{field}} placeholders from the controller.
	TitleTemplate
	// TitleFunc computes tokens from the controller on every evaluation.
	TitleFunc
	// TitleCell reads a prebuilt reactive cell.
	TitleCell
)

// String returns the string representation of the TitleKind.
func (k TitleKind) String() string {
	switch k {
	case TitleDefault:
		return "default"
	case TitleNone:
		return "none"
	case TitleText:
		return "text"
	case TitleTemplate:
		return "template"
	case TitleFunc:
		return "func"
	case TitleCell:
		return "cell"
	default:
		return "unknown"
	}
}

// Cell is a reactive string source, such as a *reactive.Memo[string].
type Cell interface {
	Get() string
}

// Title is a route's declared title token.
type Title struct {
	kind TitleKind
	text string
	fn   func(*Controller) []string
	cell Cell
}

var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)}}`)

// TextTitle returns a literal title, or a template title when text contains
// {{field}} placeholders.
func TextTitle(text string) Title {
	if placeholderPattern.MatchString(text) {
		return Title{kind: TitleTemplate, text: text}
	}
	return Title{kind: TitleText, text: text}
}

// Kind returns the title variant.
func (t Title) Kind() TitleKind {
	return t.kind
}

// Text returns the literal or template text.
func (t Title) Text() string {
	return t.text
}

// Fields lists the controller fields a template reads, in order.
func (t Title) Fields() []string {
	if t.kind != TitleTemplate {
		return nil
	}
	var fields []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(t.text, -1) {
		fields = append(fields, strings.TrimSpace(m[1]))
	}
	return fields
}

// String describes the title for diagnostics.
func (t Title) String() string {
	switch t.kind {
	case TitleText, TitleTemplate:
		return `"` + t.text + `"`
	case TitleNone:
		return "false"
	default:
		return t.kind.String()
	}
}

// tokens resolves the declared title of n against c.
func (t Title) tokens(n *Node, c *Controller) []string {
	switch t.kind {
	case TitleNone:
		return nil
	case TitleText:
		return []string{t.text}
	case TitleTemplate:
		return []string{placeholderPattern.ReplaceAllStringFunc(t.text, func(m string) string {
			field := strings.TrimSpace(m[2 : len(m)-2])
			return c.String(field)
		})}
	case TitleFunc:
		return t.fn(c)
	case TitleCell:
		return []string{t.cell.Get()}
	default:
		if n.IsIndexRoute() {
			return nil
		}
		return []string{Humanize(n.name)}
	}
}

// Humanize turns a route name into title words: "new-user" and "newUser"
// become "New User".
func Humanize(name string) string {
	var b strings.Builder
	var prev rune
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}

	words := strings.FieldsFunc(b.String(), func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// compose walks from n towards the root collecting tokens and looking for a
// formatter, and returns the formatted title.
func compose(n *Node) string {
	var (
		tokens     []string
		formatter  Formatter
		collecting = true
	)
	for cur := n; cur != nil && (formatter == nil || collecting); cur = cur.parent {
		if collecting {
			tokens = append(tokens, cur.Tokens()...)
			if cur.opts.ResetTitle {
				collecting = false
			}
		}
		if formatter == nil {
			formatter = cur.Controller().Formatter()
		}
	}

	kept := tokens[:0]
	for _, t := range tokens {
		if t != "" {
			kept = append(kept, t)
		}
	}
	if formatter == nil {
		formatter = DefaultFormatter
	}
	return formatter(kept)
}
