package router

import "github.com/vango-dev/routemeta/pkg/route"

// Kind distinguishes route from resource registrations.
type Kind uint8

const (
	KindRoute Kind = iota
	KindResource
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	if k == KindResource {
		return "resource"
	}
	return "route"
}

// Registration is one call received by a Recorder.
type Registration struct {
	Kind   Kind
	Name   string
	Path   string
	Nested []Registration
}

// Recorder is a Target that keeps every registration it receives.
type Recorder struct {
	Registrations []Registration
}

// Record maps root onto a new Recorder.
func Record(root *route.Node) (*Recorder, error) {
	rec := &Recorder{}
	if err := Map(root, rec, nil); err != nil {
		return nil, err
	}
	return rec, nil
}

// Route implements Target.
func (r *Recorder) Route(name, path string) {
	r.Registrations = append(r.Registrations, Registration{Kind: KindRoute, Name: name, Path: path})
}

// Resource implements Target.
func (r *Recorder) Resource(name, path string, nested func(Target)) {
	sub := &Recorder{}
	nested(sub)
	r.Registrations = append(r.Registrations, Registration{
		Kind:   KindResource,
		Name:   name,
		Path:   path,
		Nested: sub.Registrations,
	})
}

// Walk visits every registration depth-first with its full dotted name.
func (r *Recorder) Walk(fn func(fullName string, reg Registration, depth int)) {
	walkRegistrations(r.Registrations, "", 0, fn)
}

func walkRegistrations(regs []Registration, prefix string, depth int, fn func(string, Registration, int)) {
	for _, reg := range regs {
		name := reg.Name
		if prefix != "" {
			name = prefix + "." + name
		}
		fn(name, reg, depth)
		walkRegistrations(reg.Nested, name, depth+1, fn)
	}
}
