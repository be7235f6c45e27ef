// Package errors provides structured, coded errors for routemeta.
//
// Every error raised while building, materializing or serving a route tree
// carries a stable code (e.g., "E100") that maps to a short message, a longer
// explanation and a documentation link.
//
// # Error Categories
//
//   - build: route tree construction (invalid specs, duplicate siblings)
//   - runtime: registry lookups and transitions
//   - config: routemeta.json loading and validation
//   - manifest: HCL/YAML manifest parsing and fetching
//   - cli: command line usage
//
// # Usage
//
//	err := errors.New("E100").
//	    WithDetail(`route spec "@users" has no name`).
//	    WithSuggestion(`Use "name@path", e.g. "members@users"`)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E100: Invalid route spec
//	//
//	//   route spec "@users" has no name
//	//
//	//   Hint: Use "name@path", e.g. "members@users"
package errors
