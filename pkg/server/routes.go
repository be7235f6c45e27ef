package server

import (
	"encoding/json"
	"net/http"

	"github.com/vango-dev/routemeta/pkg/router"
)

// RouteInfo describes one route in the route table.
type RouteInfo struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Title    string `json:"title"`
	Resource bool   `json:"resource"`
	Leaf     bool   `json:"leaf"`
	Pattern  string `json:"pattern,omitempty"`
}

// Routes lists every route of the tree in declaration order.
func (s *Server) Routes() []RouteInfo {
	leaves := make(map[string]bool)
	for _, n := range s.router.Leaves() {
		leaves[n.FullName()] = true
	}

	var out []RouteInfo
	for _, n := range s.registry.Nodes() {
		info := RouteInfo{
			Name:     n.FullName(),
			Path:     n.FullPath(),
			Title:    n.TitleSpec().String(),
			Resource: n.IsResource(),
			Leaf:     leaves[n.FullName()],
		}
		if info.Leaf {
			info.Pattern = router.ChiPattern(n.FullPath())
		}
		out = append(out, info)
	}
	return out
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Routes()); err != nil {
		s.logger.Error("route table encode failed", "error", err)
	}
}
