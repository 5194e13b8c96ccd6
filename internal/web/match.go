package web

import (
	"strings"
	"unicode"
)

// MatchPath decides whether a navigation entry belongs to the current path.
type MatchPath struct {
	path   string
	prefix bool
}

// Full matches "/path" and "path" exactly.
func Full(path string) MatchPath {
	return MatchPath{path: path}
}

// Start matches any path beginning with "/path" or "path".
func Start(path string) MatchPath {
	return MatchPath{path: path, prefix: true}
}

// Matches reports whether current is matched.
func (m MatchPath) Matches(current string) bool {
	if m.prefix {
		return strings.HasPrefix(current, m.path) || strings.HasPrefix(current, "/"+m.path)
	}
	return current == m.path || current == "/"+m.path
}

// NavLink is one entry of the navigation bar.
type NavLink struct {
	Href    string
	Text    string
	Current bool
}

func navLink(current, href, text string, matching ...MatchPath) NavLink {
	link := NavLink{Href: href, Text: text}
	for _, m := range matching {
		if m.Matches(current) {
			link.Current = true
			break
		}
	}
	return link
}

// AnchorID turns a category name into a fragment id by dropping all whitespace.
func AnchorID(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
}
