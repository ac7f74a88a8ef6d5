package permissions

import (
	"context"
	"errors"
	"testing"
)

func TestParsePermission(t *testing.T) {
	tests := map[string]Permission{
		"always": Always,
		"ALWAYS": Always,
		" ask ":  Ask,
		"never":  Never,
		"no":     Never,
	}
	for in, want := range tests {
		got, err := ParsePermission(in)
		if err != nil || got != want {
			t.Errorf("ParsePermission(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParsePermission("sometimes"); !errors.Is(err, ErrUnknownPermission) {
		t.Fatalf("expected ErrUnknownPermission, got %v", err)
	}
	for _, p := range []Permission{Always, Ask, Never} {
		if got, _ := ParsePermission(p.String()); got != p {
			t.Errorf("%v does not round-trip", p)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if c, err := ParseCategory("fetch-html"); err != nil || c != FetchHTML {
		t.Fatalf("got %q, %v", c, err)
	}
	if c, err := ParseCategory("Unshorten"); err != nil || c != Unshorten {
		t.Fatalf("got %q, %v", c, err)
	}
	if _, err := ParseCategory("camera"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(map[Category]Permission{FetchHTML: Never})
	if p, _ := s.Get(ctx, Unshorten); p != Ask {
		t.Fatalf("default = %v, want ask", p)
	}
	if p, _ := s.Get(ctx, FetchHTML); p != Never {
		t.Fatalf("preloaded = %v, want never", p)
	}
	if err := s.Set(ctx, Unshorten, Always); err != nil {
		t.Fatal(err)
	}
	if p, _ := s.Get(ctx, Unshorten); p != Always {
		t.Fatalf("after Set = %v, want always", p)
	}

	var zero MemoryStore
	if err := zero.Set(ctx, FetchHTML, Always); err != nil {
		t.Fatal(err)
	}
}

func TestWithDefaults(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore(map[Category]Permission{FetchHTML: Never})
	s := WithDefaults(base, map[Category]Permission{Unshorten: Always, FetchHTML: Always})

	if p, _ := s.Get(ctx, Unshorten); p != Always {
		t.Fatalf("unshorten = %v, want the default", p)
	}
	if p, _ := s.Get(ctx, FetchHTML); p != Never {
		t.Fatalf("fetch_html = %v, want the stored value", p)
	}

	if err := s.Set(ctx, Unshorten, Never); err != nil {
		t.Fatal(err)
	}
	if p, _ := base.Get(ctx, Unshorten); p != Never {
		t.Fatalf("write did not reach the base store: %v", p)
	}
	if p, _ := s.Get(ctx, Unshorten); p != Never {
		t.Fatalf("unshorten = %v after set", p)
	}
}

// checkedStore fails writes made while held is false.
type checkedStore struct {
	*MemoryStore
	held *bool
}

func (s checkedStore) Set(ctx context.Context, c Category, p Permission) error {
	if !*s.held {
		return errors.New("write without lock")
	}
	return s.MemoryStore.Set(ctx, c, p)
}

func TestLocked(t *testing.T) {
	ctx := context.Background()
	held, calls := false, 0
	base := checkedStore{MemoryStore: NewMemoryStore(nil), held: &held}
	store := Locked(base, func(fn func() error) error {
		held = true
		defer func() { held = false }()
		calls++
		return fn()
	})

	if err := store.Set(ctx, FetchHTML, Always); err != nil {
		t.Fatal(err)
	}
	if p, _ := store.Get(ctx, FetchHTML); p != Always {
		t.Fatalf("Get = %v", p)
	}
	if calls != 1 {
		t.Fatalf("lock taken %d times", calls)
	}

	failing := Locked(base, func(func() error) error { return errors.New("locked out") })
	if err := failing.Set(ctx, Unshorten, Never); err == nil {
		t.Fatal("lock error not returned")
	}
	if p, _ := base.Get(ctx, Unshorten); p != Ask {
		t.Fatalf("write went through without the lock: %v", p)
	}
}
