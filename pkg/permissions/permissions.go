// Package permissions models the user's standing answer to "may geoshare go
// online for this?" for each kind of network access.
package permissions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Permission is the standing answer for one category.
type Permission int

const (
	Ask Permission = iota
	Always
	Never
)

func (p Permission) String() string {
	switch p {
	case Always:
		return "always"
	case Never:
		return "never"
	default:
		return "ask"
	}
}

// ErrUnknownPermission is returned by ParsePermission.
var ErrUnknownPermission = errors.New("unknown permission")

// ParsePermission accepts the String form, case-insensitively.
func ParsePermission(s string) (Permission, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always", "yes":
		return Always, nil
	case "ask", "":
		return Ask, nil
	case "never", "no":
		return Never, nil
	}
	return Ask, fmt.Errorf("%w: %q", ErrUnknownPermission, s)
}

// Category is a kind of network access.
type Category string

const (
	// Unshorten covers resolving a short link through an HTTP redirect.
	Unshorten Category = "unshorten"
	// FetchHTML covers downloading a web page to look for coordinates.
	FetchHTML Category = "fetch_html"
)

// Categories lists every category.
var Categories = []Category{Unshorten, FetchHTML}

// ErrUnknownCategory is returned by ParseCategory.
var ErrUnknownCategory = errors.New("unknown permission category")

// ParseCategory accepts a category name; "fetch-html" is accepted too.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Store persists permissions. Reads may race with writes from another
// conversion; the worst outcome is one extra prompt.
type Store interface {
	Get(ctx context.Context, c Category) (Permission, error)
	Set(ctx context.Context, c Category, p Permission) error
}

// MemoryStore is a Store kept in memory. Unset categories are Ask.
type MemoryStore struct {
	mu    sync.RWMutex
	perms map[Category]Permission
}

// NewMemoryStore returns a store preloaded with initial.
func NewMemoryStore(initial map[Category]Permission) *MemoryStore {
	s := &MemoryStore{perms: make(map[Category]Permission, len(initial))}
	for c, p := range initial {
		s.perms[c] = p
	}
	return s
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, c Category) (Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.perms[c], nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, c Category, p Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.perms == nil {
		s.perms = make(map[Category]Permission)
	}
	s.perms[c] = p
	return nil
}

// WithDefaults returns a store that answers defaults[c] for categories base
// still has as Ask. Writes go to base.
func WithDefaults(base Store, defaults map[Category]Permission) Store {
	return defaultStore{base: base, defaults: defaults}
}

type defaultStore struct {
	base     Store
	defaults map[Category]Permission
}

func (s defaultStore) Get(ctx context.Context, c Category) (Permission, error) {
	p, err := s.base.Get(ctx, c)
	if err != nil || p != Ask {
		return p, err
	}
	return s.defaults[c], nil
}

func (s defaultStore) Set(ctx context.Context, c Category, p Permission) error {
	return s.base.Set(ctx, c, p)
}

// Locked returns a store whose writes run inside with, typically a
// cross-process database lock.
func Locked(base Store, with func(func() error) error) Store {
	return lockedStore{base: base, with: with}
}

type lockedStore struct {
	base Store
	with func(func() error) error
}

func (s lockedStore) Get(ctx context.Context, c Category) (Permission, error) {
	return s.base.Get(ctx, c)
}

func (s lockedStore) Set(ctx context.Context, c Category, p Permission) error {
	return s.with(func() error {
		return s.base.Set(ctx, c, p)
	})
}
