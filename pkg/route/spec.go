package route

import (
	"regexp"
	"strings"

	"github.com/vango-dev/routemeta/internal/errors"
)

const (
	// ApplicationName is the name of the implicit root route.
	ApplicationName = "application"

	// IndexName is the name of index routes, declared or synthesized.
	IndexName = "index"

	// WildcardPath is the path a "*" route spec expands to.
	WildcardPath = "/*wildcard"

	wildcardSegment = "*wildcard"
)

var specPattern = regexp.MustCompile(`^([^@]+)(?:@(.*))?$`)

// Parse splits a route spec into name and path.
//
//	"home@/"        → home, /
//	"show@:user_id" → show, :user_id
//	"catchall@*"    → catchall, /*wildcard
//	"index"         → index, /
//	"dashboard"     → dashboard, dashboard
//
// An empty spec is the application root.
func Parse(spec string) (name, path string, err error) {
	if spec == "" {
		return ApplicationName, "/", nil
	}
	m := specPattern.FindStringSubmatch(spec)
	if m == nil {
		return "", "", errors.New("E100").
			WithRoute(spec).
			WithSuggestion(`Use "name" or "name@path", e.g. "members@users"`)
	}
	name = m[1]
	if !strings.Contains(spec, "@") {
		if name == IndexName {
			return name, "/", nil
		}
		return name, name, nil
	}
	switch path = m[2]; path {
	case "":
		path = "/"
	case "*":
		path = WildcardPath
	}
	return name, path, nil
}

// CleanPath strips one leading and one trailing slash.
// The empty result denotes an index route.
func CleanPath(path string) string {
	path = strings.TrimPrefix(path, "/")
	return strings.TrimSuffix(path, "/")
}
