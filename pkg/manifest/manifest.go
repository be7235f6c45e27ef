package manifest

import (
	"fmt"
	"path"
	"strings"

	"github.com/vango-dev/routemeta/internal/errors"
	"github.com/vango-dev/routemeta/pkg/route"
)

// Format is a manifest encoding.
type Format string

const (
	FormatHCL  Format = "hcl"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file name or key extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".hcl":
		return FormatHCL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New("E150").
			WithDetail(fmt.Sprintf("Cannot tell the manifest format of %q", name)).
			WithSuggestion("Use a .hcl, .yaml or .yml file")
	}
}

// TitleDecl is a declared title: unset, false, or text.
type TitleDecl struct {
	Set  bool
	None bool
	Text string
}

func (t TitleDecl) option() route.Option {
	switch {
	case !t.Set:
		return nil
	case t.None:
		return route.WithoutTitle()
	default:
		return route.WithTitle(t.Text)
	}
}

// RouteDecl declares one route and its children.
type RouteDecl struct {
	Spec       string
	Title      TitleDecl
	ResetTitle bool
	Resource   bool
	Routes     []RouteDecl
}

// Manifest is a decoded route tree declaration.
type Manifest struct {
	Title  TitleDecl
	Routes []RouteDecl
}

// Build declares the route tree. Invalid specs fail with E100 and
// duplicate siblings with E102.
func (m *Manifest) Build() (*route.Node, error) {
	root := route.Root(options(m.Title, false, false)...)
	for _, d := range m.Routes {
		if err := build(root, d); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func build(parent *route.Node, d RouteDecl) error {
	if d.Spec == "" {
		return errors.New("E100").
			WithRoute(parent.FullName()).
			WithDetail("Nested routes need a name")
	}
	n, err := route.New(d.Spec, options(d.Title, d.ResetTitle, d.Resource)...)
	if err != nil {
		return err
	}
	if err := parent.Add(n); err != nil {
		return err
	}
	for _, child := range d.Routes {
		if err := build(n, child); err != nil {
			return err
		}
	}
	return nil
}

func options(t TitleDecl, reset, resource bool) []route.Option {
	var opts []route.Option
	if o := t.option(); o != nil {
		opts = append(opts, o)
	}
	if reset {
		opts = append(opts, route.ResetTitle())
	}
	if resource {
		opts = append(opts, route.AsResource())
	}
	return opts
}

// Parse decodes src in the given format.
func Parse(src []byte, filename string, format Format) (*Manifest, error) {
	switch format {
	case FormatHCL:
		return ParseHCL(src, filename)
	case FormatYAML:
		return ParseYAML(src)
	default:
		return nil, errors.New("E150").WithDetail(fmt.Sprintf("Unknown manifest format %q", format))
	}
}
