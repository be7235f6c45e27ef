package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://routemeta.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Build Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryBuild,
		Message:  "Invalid route spec",
		Detail:   `A route spec must be "name" or "name@path" with a non-empty name.`,
		DocURL:   docBase + "E100",
	},
	"E101": {
		Category: CategoryBuild,
		Message:  "Only the root route may be materialized",
		Detail:   "ToRouter was called on a node that has a parent. Materialize the application root instead.",
		DocURL:   docBase + "E101",
	},
	"E102": {
		Category: CategoryBuild,
		Message:  "Duplicate sibling route",
		Detail:   "Two children of the same route share a name or a path.",
		DocURL:   docBase + "E102",
	},
	"E103": {
		Category: CategoryRuntime,
		Message:  "Unknown route",
		Detail:   "No route metadata is registered under this full name.",
		DocURL:   docBase + "E103",
	},

	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The routemeta.json file could not be read or parsed.",
		DocURL:   docBase + "E120",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration field failed validation.",
		DocURL:   docBase + "E122",
	},
	"E140": {
		Category: CategoryConfig,
		Message:  "File already exists",
		Detail:   "Refusing to overwrite an existing file.",
		DocURL:   docBase + "E140",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration not found",
		Detail:   "No routemeta.json was found.",
		DocURL:   docBase + "E141",
	},

	// ============================================
	// Manifest Errors (E150-E169)
	// ============================================

	"E150": {
		Category: CategoryManifest,
		Message:  "Invalid route manifest",
		Detail:   "The route manifest could not be parsed or decoded.",
		DocURL:   docBase + "E150",
	},
	"E151": {
		Category: CategoryManifest,
		Message:  "Route manifest fetch failed",
		Detail:   "The route manifest could not be fetched from its source.",
		DocURL:   docBase + "E151",
	},

	// ============================================
	// CLI Errors (E170-E189)
	// ============================================

	"E170": {
		Category: CategoryCLI,
		Message:  "Invalid command arguments",
		DocURL:   docBase + "E170",
	},
}

// Register adds or replaces an error template.
// Intended for applications that extend the code space (E900+).
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
