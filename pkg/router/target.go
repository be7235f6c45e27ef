package router

import (
	"log/slog"

	"github.com/vango-dev/routemeta/internal/errors"
	"github.com/vango-dev/routemeta/pkg/route"
)

// Target receives route registrations in declaration order.
type Target interface {
	// Route registers a terminal route.
	Route(name, path string)

	// Resource registers a route with nested routes. nested is called with
	// the target the children must be registered on.
	Resource(name, path string, nested func(Target))
}

// Map emits the children of n onto t. A resource without an index child
// gains one before any child is emitted, so n is mutated; call Map before
// the tree is shared.
func Map(n *route.Node, t Target, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default().With("component", "router")
	}
	if n.IsResource() {
		if _, err := n.EnsureIndex(); err != nil {
			return err
		}
	}

	for _, child := range n.Children() {
		if !child.IsResource() {
			logger.Debug("defining route", "name", child.Name(), "path", child.Path())
			t.Route(child.Name(), child.Path())
			continue
		}

		logger.Debug("defining resource", "name", child.Name(), "path", child.Path())
		var nestedErr error
		t.Resource(child.Name(), child.Path(), func(nested Target) {
			nestedErr = Map(child, nested, logger.WithGroup(child.Name()))
		})
		if nestedErr != nil {
			return nestedErr
		}
	}
	return nil
}

// requireRoot returns E101 if n is not the root of its tree.
func requireRoot(n *route.Node) error {
	if n.Parent() != nil {
		return errors.New("E101").
			WithRoute(n.FullName()).
			WithSuggestion("Call ToRouter on " + n.Root().String())
	}
	return nil
}
