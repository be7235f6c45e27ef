// Package demo is the reference members application used by the CLI when no
// manifest is configured.
package demo

import (
	"strconv"

	"github.com/vango-dev/routemeta/pkg/route"
)

// Title is the application title.
const Title = "Ember Enhanced Router"

// User is a member fixture.
type User struct {
	ID   int
	Name string
}

// Users are the member fixtures keyed by ID.
var Users = map[int]User{
	1: {ID: 1, Name: "Huafu Gandon"},
}

// SessionUserID is the ID of the signed-in member.
const SessionUserID = 1

// App declares the application tree.
func App() *route.Node {
	return route.Root(route.WithTitle(Title)).Routes(
		route.Route("home@/", route.WithoutTitle()),
		route.Route("dashboard"),
		route.Route("members@users", route.WithTitle("All Members")).Routes(
			route.Route("index"),
			route.Route("show@:user_id", route.WithTitle("User {{name}}")),
			route.Route("new", route.WithTitle("New User"), route.ResetTitle()),
			route.Route("edit@:user_id/edit", route.WithTitleFunc(editTitle)),
		),
		route.Route("catchall@*"),
	)
}

func editTitle(c *route.Controller) string {
	if c.Bool("isSessionUser") {
		return "Edit Profile"
	}
	return `"` + c.String("model.name") + `"`
}

// Fields returns the controller fields for a route entered with params,
// playing the part of the route's model hook. Unknown members resolve to an
// empty model.
func Fields(fullName string, params map[string]string) map[string]any {
	switch fullName {
	case "members.show":
		u := lookup(params["user_id"])
		return map[string]any{"name": u.Name, "model": map[string]any{"name": u.Name}}
	case "members.edit":
		u := lookup(params["user_id"])
		return map[string]any{
			"isSessionUser": u.ID != 0 && u.ID == SessionUserID,
			"model":         map[string]any{"name": u.Name},
		}
	default:
		return nil
	}
}

func lookup(id string) User {
	n, err := strconv.Atoi(id)
	if err != nil {
		return User{}
	}
	return Users[n]
}
