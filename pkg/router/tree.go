package router

import (
	"strings"

	"github.com/vango-dev/routemeta/pkg/route"
	"github.com/vango-dev/routemeta/pkg/routepath"
)

// matchNode is a node in the radix tree.
type matchNode struct {
	// segment is the path segment this node matches
	segment string

	// isParam indicates this is a parameter segment (:id)
	isParam bool

	// isCatchAll indicates this is a catch-all segment (*wildcard)
	isCatchAll bool

	// paramName is the parameter name (without : or *)
	paramName string

	// route is the leaf registered at this path, if any
	route *route.Node

	// children are static segment children
	children []*matchNode

	// paramChild is the dynamic parameter child (:id)
	paramChild *matchNode

	// catchAllChild is the catch-all child (*wildcard)
	catchAllChild *matchNode
}

func newMatchNode(segment string) *matchNode {
	return &matchNode{segment: segment}
}

// findChild finds a child node with an exact segment match.
func (n *matchNode) findChild(segment string) *matchNode {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

// addChild adds or retrieves a child node for the given segment.
func (n *matchNode) addChild(segment string) *matchNode {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := newMatchNode(segment)
	n.children = append(n.children, child)
	return child
}

func (n *matchNode) addParamChild(name string) *matchNode {
	if n.paramChild == nil {
		n.paramChild = &matchNode{isParam: true, paramName: name}
	}
	return n.paramChild
}

func (n *matchNode) addCatchAllChild(name string) *matchNode {
	if n.catchAllChild == nil {
		n.catchAllChild = &matchNode{isCatchAll: true, paramName: name}
	}
	return n.catchAllChild
}

// insert returns the node for path, creating it if needed.
func (n *matchNode) insert(path string) *matchNode {
	current := n
	for _, seg := range splitPath(path) {
		switch {
		case strings.HasPrefix(seg, "*"):
			// Catch-all consumes the rest of the path.
			return current.addCatchAllChild(seg[1:])
		case strings.HasPrefix(seg, ":"):
			current = current.addParamChild(seg[1:])
		default:
			current = current.addChild(seg)
		}
	}
	return current
}

// match finds the route for the given segments, preferring static over
// param over catch-all and backtracking when a branch fails.
func (n *matchNode) match(segments []string, params Params) (*route.Node, bool) {
	if len(segments) == 0 {
		return n.route, n.route != nil
	}

	segment := segments[0]
	remaining := segments[1:]

	if child := n.findChild(segment); child != nil {
		if r, ok := child.match(remaining, params); ok {
			return r, true
		}
	}

	if n.paramChild != nil {
		if value, err := routepath.Decode(segment, false); err == nil {
			params[n.paramChild.paramName] = value
			if r, ok := n.paramChild.match(remaining, params); ok {
				return r, true
			}
			delete(params, n.paramChild.paramName)
		}
	}

	if n.catchAllChild != nil && n.catchAllChild.route != nil {
		if value, err := routepath.Decode(strings.Join(segments, "/"), true); err == nil {
			params[n.catchAllChild.paramName] = value
			return n.catchAllChild.route, true
		}
	}

	return nil, false
}

// splitPath splits a path into segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
