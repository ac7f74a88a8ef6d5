// Package pattern is a small combinator grammar for pulling named values out
// of the parts of a URI.
//
// A tree is built once per input with All, First, Optional and the leaf
// constructors, and is safe for concurrent use afterwards.
package pattern

import (
	"regexp"

	"github.com/sw33tLie/geoshare/pkg/uri"
)

// Matcher reports whether u matches and which named groups it captured.
type Matcher interface {
	Match(u uri.URI) (Captures, bool)
}

type all struct{ children []Matcher }

// All succeeds only if every child succeeds and merges all their captures.
func All(children ...Matcher) Matcher { return all{children: children} }

func (m all) Match(u uri.URI) (Captures, bool) {
	out := Captures{}
	for _, c := range m.children {
		caps, ok := c.Match(u)
		if !ok {
			return nil, false
		}
		out = out.Merge(caps)
	}
	return out, true
}

type first struct{ children []Matcher }

// First returns the captures of the first child that succeeds, trying them
// in the order given.
func First(children ...Matcher) Matcher { return first{children: children} }

func (m first) Match(u uri.URI) (Captures, bool) {
	for _, c := range m.children {
		if caps, ok := c.Match(u); ok {
			return caps, true
		}
	}
	return nil, false
}

type optional struct{ children []Matcher }

// Optional always succeeds, merging the captures of every child that matched.
func Optional(children ...Matcher) Matcher { return optional{children: children} }

func (m optional) Match(u uri.URI) (Captures, bool) {
	out := Captures{}
	for _, c := range m.children {
		if caps, ok := c.Match(u); ok {
			out = out.Merge(caps)
		}
	}
	return out, true
}

type leaf struct {
	re  *regexp.Regexp
	get func(u uri.URI) (string, bool)
}

func newLeaf(expr string, get func(u uri.URI) (string, bool)) Matcher {
	return leaf{re: regexp.MustCompile(`^(?:` + expr + `)$`), get: get}
}

func (m leaf) Match(u uri.URI) (Captures, bool) {
	s, ok := m.get(u)
	if !ok {
		return nil, false
	}
	sub := m.re.FindStringSubmatch(s)
	if sub == nil {
		return nil, false
	}
	caps := Captures{}
	for i, name := range m.re.SubexpNames() {
		if name != "" && sub[i] != "" {
			caps[name] = sub[i]
		}
	}
	return caps, true
}

// Host matches the lower-cased host name against expr.
func Host(expr string) Matcher {
	return newLeaf(expr, func(u uri.URI) (string, bool) { return u.Hostname(), true })
}

// Path matches the path as shared, including its leading slash.
func Path(expr string) Matcher {
	return newLeaf(expr, func(u uri.URI) (string, bool) { return u.Path, true })
}

// Query matches the decoded value of the query parameter key. A missing
// parameter never matches.
func Query(key, expr string) Matcher {
	return newLeaf(expr, func(u uri.URI) (string, bool) { return u.Query.Lookup(key) })
}

// Fragment matches the fragment without its leading '#'.
func Fragment(expr string) Matcher {
	return newLeaf(expr, func(u uri.URI) (string, bool) { return u.Fragment, true })
}

// Scheme matches the lower-cased scheme.
func Scheme(expr string) Matcher {
	return newLeaf(expr, func(u uri.URI) (string, bool) { return u.Scheme, true })
}
