// Package component holds the document title display widget.
package component

import (
	"fmt"

	"github.com/vango-dev/routemeta/pkg/vdom"
)

// Display controls the widget's CSS display. The zero value hides it.
type Display struct {
	shown bool
	mode  string
}

// Hidden renders the widget with display:none.
func Hidden() Display { return Display{} }

// Shown renders the widget without a style.
func Shown() Display { return Display{shown: true} }

// Mode renders the widget with display set to mode, such as "block".
func Mode(mode string) Display { return Display{shown: true, mode: mode} }

// ParseDisplay converts a configuration value: false hides, true shows and a
// string is a display mode. nil is the default, hidden.
func ParseDisplay(v any) (Display, error) {
	switch v := v.(type) {
	case nil:
		return Hidden(), nil
	case bool:
		if v {
			return Shown(), nil
		}
		return Hidden(), nil
	case string:
		return Mode(v), nil
	default:
		return Display{}, fmt.Errorf("display must be a bool or a string, got %T", v)
	}
}

// Style returns the inline style, or "" for none.
func (d Display) Style() string {
	switch {
	case !d.shown:
		return "display:none;"
	case d.mode == "":
		return ""
	default:
		return "display:" + d.mode + ";"
	}
}

// String returns the configuration form of d.
func (d Display) String() string {
	switch {
	case !d.shown:
		return "false"
	case d.mode == "":
		return "true"
	default:
		return d.mode
	}
}

// TitleSource supplies the current document title.
type TitleSource interface {
	CurrentTitle() string
}

// DocumentTitle renders the current title as the text of a div.
type DocumentTitle struct {
	Source  TitleSource
	Display Display
}

// NewDocumentTitle returns a widget reading from src.
func NewDocumentTitle(src TitleSource, display Display) *DocumentTitle {
	return &DocumentTitle{Source: src, Display: display}
}

// Render implements vdom.Component.
func (d *DocumentTitle) Render() *vdom.VNode {
	var title string
	if d.Source != nil {
		title = d.Source.CurrentTitle()
	}
	return vdom.Div(
		vdom.Data("routemeta", "document-title"),
		vdom.Style(d.Display.Style()),
		title,
	)
}

var _ vdom.Component = (*DocumentTitle)(nil)
