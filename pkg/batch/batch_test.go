package batch

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sw33tLie/geoshare/pkg/conversion"
	"github.com/sw33tLie/geoshare/pkg/permissions"
	"github.com/sw33tLie/geoshare/pkg/registry"
	"github.com/sw33tLie/geoshare/pkg/storage"
)

type offlineNetwork struct{}

func (offlineNetwork) ResolveRedirect(context.Context, string, string) (string, error) {
	return "", errors.New("offline")
}

func (offlineNetwork) FetchBody(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("offline")
}

func testEnv() conversion.Env {
	return conversion.Env{
		Registry:    registry.Default(),
		Network:     offlineNetwork{},
		Permissions: permissions.NewMemoryStore(nil),
	}
}

func TestReadLines(t *testing.T) {
	in := "# shared this week\n\ngeo:52.47254,13.4345\n  52.5, 13.4  \n"
	lines, err := ReadLines(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || lines[0] != "geo:52.47254,13.4345" || lines[1] != "52.5, 13.4" {
		t.Fatalf("lines = %q", lines)
	}
}

func TestConvert(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "geoshare.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	texts := []string{
		"https://www.google.com/maps/@52.5067296,13.2599309,11z",
		"geo:52.47254,13.4345",
		"nothing to see here",
		"https://maps.app.goo.gl/TmbeHMiLEfTBws9EA",
	}

	var (
		mu   sync.Mutex
		seen []int
	)
	res := Convert(context.Background(), Config{
		Env:         testEnv(),
		DB:          db,
		Concurrency: 2,
		OnItemDone: func(item Item) {
			mu.Lock()
			seen = append(seen, item.Index)
			mu.Unlock()
		},
	}, texts)

	if res.Succeeded != 2 || res.Failed != 2 || len(res.Errors) != 0 {
		t.Fatalf("result = %+v", res)
	}
	if len(seen) != len(texts) {
		t.Fatalf("callback ran %d times", len(seen))
	}
	for i, item := range res.Items {
		if item.Index != i || item.Text != texts[i] {
			t.Fatalf("item %d out of order: %+v", i, item)
		}
	}
	if f, ok := res.Items[2].State.(conversion.Failed); !ok || f.Kind != conversion.UnsupportedService {
		t.Fatalf("item 2 = %+v", res.Items[2].State)
	}
	// Nobody can answer the prompt, so the short link is denied.
	if f, ok := res.Items[3].State.(conversion.Failed); !ok || f.Kind != conversion.PermissionDenied {
		t.Fatalf("item 3 = %+v", res.Items[3].State)
	}

	history, err := db.ListConversions(context.Background(), storage.ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 4 {
		t.Fatalf("history has %d entries", len(history))
	}
}

func TestRecord(t *testing.T) {
	env := testEnv()
	text := "geo:52.47254,13.4345?z=11"
	rec := Record(text, conversion.Run(context.Background(), &env, text))
	if rec.Status != storage.StatusSucceeded || rec.Input != "geouri" || !rec.HasPoint || rec.Lat != 52.47254 || rec.Zoom != 11 || rec.Points != 1 {
		t.Fatalf("record = %+v", rec)
	}

	rec = Record("hello", conversion.Run(context.Background(), &env, "hello"))
	if rec.Status != storage.StatusFailed || rec.Input != "unknown" || rec.Failure == "" {
		t.Fatalf("record = %+v", rec)
	}
}
