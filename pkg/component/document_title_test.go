package component

import (
	"context"
	"testing"

	"github.com/vango-dev/routemeta/pkg/registry"
	"github.com/vango-dev/routemeta/pkg/render"
	"github.com/vango-dev/routemeta/pkg/route"
	"github.com/vango-dev/routemeta/pkg/router"
)

func TestParseDisplay(t *testing.T) {
	tests := []struct {
		in    any
		style string
		str   string
	}{
		{nil, "display:none;", "false"},
		{false, "display:none;", "false"},
		{true, "", "true"},
		{"block", "display:block;", "block"},
		{"", "", "true"},
	}
	for _, tt := range tests {
		d, err := ParseDisplay(tt.in)
		if err != nil {
			t.Fatalf("ParseDisplay(%v): %v", tt.in, err)
		}
		if got := d.Style(); got != tt.style {
			t.Errorf("ParseDisplay(%v).Style() = %q, want %q", tt.in, got, tt.style)
		}
		if got := d.String(); got != tt.str {
			t.Errorf("ParseDisplay(%v).String() = %q, want %q", tt.in, got, tt.str)
		}
	}

	if _, err := ParseDisplay(3); err == nil {
		t.Error("expected an error for a number")
	}
}

type staticTitle string

func (s staticTitle) CurrentTitle() string { return string(s) }

func TestDocumentTitleRender(t *testing.T) {
	r := render.NewRenderer(render.RendererConfig{})
	tests := []struct {
		name   string
		widget *DocumentTitle
		want   string
	}{
		{"default hidden", NewDocumentTitle(staticTitle("Home"), Display{}),
			`<div data-routemeta="document-title" style="display:none;">Home</div>`},
		{"shown", NewDocumentTitle(staticTitle("A & B"), Shown()),
			`<div data-routemeta="document-title">A &amp; B</div>`},
		{"inline", NewDocumentTitle(staticTitle("x"), Mode("inline")),
			`<div data-routemeta="document-title" style="display:inline;">x</div>`},
		{"no source", NewDocumentTitle(nil, Shown()),
			`<div data-routemeta="document-title"></div>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.RenderToString(tt.widget.Render())
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDocumentTitleFollowsRegistry(t *testing.T) {
	root := route.Root(route.WithTitle("App")).Routes(route.Route("about"))
	if _, err := router.ToRouter(root, router.Config{}); err != nil {
		t.Fatal(err)
	}
	reg := registry.New(root)
	widget := NewDocumentTitle(reg, Shown())
	r := render.NewRenderer(render.RendererConfig{})

	if err := reg.Activate(context.Background(), "about"); err != nil {
		t.Fatal(err)
	}
	got, _ := r.RenderToString(widget.Render())
	if want := `<div data-routemeta="document-title">About - App</div>`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
