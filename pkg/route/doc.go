// Package route describes an application's route hierarchy as a tree of
// metadata nodes and derives document titles from it.
//
// # Building a tree
//
// Trees are declared top-down. Each route is "name" or "name@path":
//
//	app := route.Root(route.WithTitle("Ember Enhanced Router")).Routes(
//	    route.Route("home@/", route.WithoutTitle()),
//	    route.Route("dashboard"),
//	    route.Route("members@users", route.WithTitle("All Members")).Routes(
//	        route.Route("index"),
//	        route.Route("show@:user_id", route.WithTitle("User {{name}}")),
//	        route.Route("new", route.WithTitle("New User"), route.ResetTitle()),
//	    ),
//	    route.Route("catchall@*"),
//	)
//
// A missing path defaults to the name ("/" for "index"), an empty path means
// "/" and "*" is the catch-all segment "/*wildcard". A node with children is
// a resource.
//
// # Titles
//
// The full title of a node is built by walking from the node to the root and
// appending each node's title tokens, so the node's own token comes first:
//
//	app.ChildForName("members").ChildForName("show").Title()
//	// "User Ann - All Members - Ember Enhanced Router"
//
// A node with ResetTitle stops the walk from collecting tokens of its
// ancestors. The nearest controller on the walk that has a Formatter decides
// how tokens are joined; otherwise they are joined with " - ".
//
// Titles are reactive: controller fields are signals, so a Title read after
// a field changes reflects the change, and AddTitleObserver callbacks fire.
package route
