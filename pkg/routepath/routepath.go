// Package routepath normalizes request paths before they are matched
// against a route tree.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Result is a canonical path and its query.
type Result struct {
	// Path has a leading slash and no trailing slash, except for "/".
	Path string

	// Query is the query string without the leading "?".
	Query string

	// Changed is true when Path differs from the input path.
	Changed bool
}

// Canonicalization errors.
var (
	ErrBackslash    = errors.New("path contains backslash")
	ErrNullByte     = errors.New("path contains null byte")
	ErrBadEscape    = errors.New("invalid percent escape sequence")
	ErrEscapesRoot  = errors.New("path escapes root via ..")
	ErrEncodedSlash = errors.New("encoded slash in a parameter segment")
)

// Canonicalize collapses repeated slashes, drops "." segments, resolves
// ".." segments and strips the trailing slash. Backslashes, NUL bytes,
// malformed escapes and ".." above the root are rejected.
func Canonicalize(input string) (Result, error) {
	if input == "" {
		return Result{Path: "/", Changed: true}, nil
	}

	p, query, _ := strings.Cut(input, "?")
	if strings.Contains(p, `\`) {
		return Result{}, ErrBackslash
	}
	if strings.Contains(p, "\x00") || strings.Contains(strings.ToUpper(p), "%00") {
		return Result{}, ErrNullByte
	}
	if strings.Contains(p, "%") && !validEscapes(p) {
		return Result{}, ErrBadEscape
	}

	var out []string
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(out) == 0 {
				return Result{}, ErrEscapesRoot
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}

	clean := "/" + strings.Join(out, "/")
	return Result{Path: clean, Query: query, Changed: clean != p}, nil
}

func validEscapes(p string) bool {
	for i := 0; i < len(p); i++ {
		if p[i] != '%' {
			continue
		}
		if i+2 >= len(p) || !isHex(p[i+1]) || !isHex(p[i+2]) {
			return false
		}
		i += 2
	}
	return true
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Decode unescapes a matched parameter value. Only a catch-all value may
// decode to a string containing "/".
func Decode(value string, catchAll bool) (string, error) {
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return "", ErrBadEscape
	}
	if !catchAll && strings.Contains(decoded, "/") {
		return "", ErrEncodedSlash
	}
	return decoded, nil
}
