package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vango-dev/routemeta/internal/errors"
	"github.com/zclconf/go-cty/cty"
)

type hclFile struct {
	Application *hclApplication `hcl:"application,block"`
	Routes      []*hclRoute     `hcl:"route,block"`
}

type hclApplication struct {
	Title hcl.Expression `hcl:"title,optional"`
}

type hclRoute struct {
	Spec       string         `hcl:"spec,label"`
	Title      hcl.Expression `hcl:"title,optional"`
	ResetTitle *bool          `hcl:"reset_title,optional"`
	Resource   *bool          `hcl:"resource,optional"`
	Routes     []*hclRoute    `hcl:"route,block"`
}

// ParseHCL decodes an HCL manifest. filename is used in diagnostics.
func ParseHCL(src []byte, filename string) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.New("E150").
			WithDetail(fmt.Sprintf("failed to parse HCL file %s", filename)).
			Wrap(diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, errors.New("E150").
			WithDetail(fmt.Sprintf("failed to decode HCL file %s", filename)).
			Wrap(diags)
	}

	m := &Manifest{}
	if parsed.Application != nil {
		t, err := hclTitle(parsed.Application.Title)
		if err != nil {
			return nil, err
		}
		m.Title = t
	}
	for _, r := range parsed.Routes {
		d, err := r.decl()
		if err != nil {
			return nil, err
		}
		m.Routes = append(m.Routes, d)
	}
	return m, nil
}

func (r *hclRoute) decl() (RouteDecl, error) {
	t, err := hclTitle(r.Title)
	if err != nil {
		return RouteDecl{}, errors.FromError(err, "E150").WithRoute(r.Spec)
	}
	d := RouteDecl{
		Spec:       r.Spec,
		Title:      t,
		ResetTitle: r.ResetTitle != nil && *r.ResetTitle,
		Resource:   r.Resource != nil && *r.Resource,
	}
	for _, child := range r.Routes {
		cd, err := child.decl()
		if err != nil {
			return RouteDecl{}, err
		}
		d.Routes = append(d.Routes, cd)
	}
	return d, nil
}

// hclTitle accepts a string or false. An absent attribute is unset.
func hclTitle(expr hcl.Expression) (TitleDecl, error) {
	if expr == nil {
		return TitleDecl{}, nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return TitleDecl{}, errors.New("E150").Wrap(diags)
	}
	if v.IsNull() {
		return TitleDecl{}, nil
	}
	switch v.Type() {
	case cty.String:
		return TitleDecl{Set: true, Text: v.AsString()}, nil
	case cty.Bool:
		if v.True() {
			return TitleDecl{}, errors.New("E150").
				WithDetail("title = true is not allowed; use a string or false").
				WithSuggestion("Remove the attribute to use the humanized route name")
		}
		return TitleDecl{Set: true, None: true}, nil
	default:
		return TitleDecl{}, errors.New("E150").
			WithDetail(fmt.Sprintf("title must be a string or false, got %s", v.Type().FriendlyName()))
	}
}
