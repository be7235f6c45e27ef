// Package router materializes a route metadata tree onto a host router.
//
// A host router is anything implementing Target: the nested route/resource
// registration DSL. Map walks a tree in declaration order and emits those
// registrations, giving every resource an index route first if it lacks one.
//
//	root := route.Root(route.WithTitle("Shop")).Routes(
//	    route.Route("products").Routes(
//	        route.Route("show@:product_id"),
//	    ),
//	)
//
//	r, err := router.ToRouter(root, router.Config{Location: router.LocationHistory})
//	if err != nil {
//	    return err
//	}
//	node, params, ok := r.Match("/products/42")
//	// node.FullName() == "products.show", params["product_id"] == "42"
//
// Three targets ship with the package:
//   - Router, the radix-tree matcher ToRouter returns
//   - ChiTarget, which registers GET handlers on a chi.Router
//   - Recorder, which keeps the registrations for inspection
package router
