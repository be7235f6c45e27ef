package manifest

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vango-dev/routemeta/internal/errors"
	"gopkg.in/yaml.v3"
)

type yamlFile struct {
	Application *yamlApplication `yaml:"application"`
	Routes      []yamlRoute      `yaml:"routes"`
}

type yamlApplication struct {
	Title any `yaml:"title"`
}

type yamlRoute struct {
	Route      string      `yaml:"route"`
	Title      any         `yaml:"title"`
	ResetTitle bool        `yaml:"reset_title"`
	Resource   bool        `yaml:"resource"`
	Routes     []yamlRoute `yaml:"routes"`
}

// ParseYAML decodes a YAML manifest. Unknown keys are rejected.
func ParseYAML(src []byte) (*Manifest, error) {
	var parsed yamlFile
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&parsed); err != nil && err != io.EOF {
		return nil, errors.New("E150").WithDetail("failed to decode YAML manifest").Wrap(err)
	}

	m := &Manifest{}
	if parsed.Application != nil {
		t, err := yamlTitle(parsed.Application.Title)
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

func (r yamlRoute) decl() (RouteDecl, error) {
	if r.Route == "" {
		return RouteDecl{}, errors.New("E150").WithDetail("every route needs a route: key")
	}
	t, err := yamlTitle(r.Title)
	if err != nil {
		return RouteDecl{}, errors.FromError(err, "E150").WithRoute(r.Route)
	}
	d := RouteDecl{Spec: r.Route, Title: t, ResetTitle: r.ResetTitle, Resource: r.Resource}
	for _, child := range r.Routes {
		cd, err := child.decl()
		if err != nil {
			return RouteDecl{}, err
		}
		d.Routes = append(d.Routes, cd)
	}
	return d, nil
}

func yamlTitle(v any) (TitleDecl, error) {
	switch v := v.(type) {
	case nil:
		return TitleDecl{}, nil
	case string:
		return TitleDecl{Set: true, Text: v}, nil
	case bool:
		if v {
			return TitleDecl{}, errors.New("E150").
				WithDetail("title: true is not allowed; use a string or false")
		}
		return TitleDecl{Set: true, None: true}, nil
	default:
		return TitleDecl{}, errors.New("E150").
			WithDetail(fmt.Sprintf("title must be a string or false, got %T", v))
	}
}
