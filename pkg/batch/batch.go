// Package batch converts many pieces of shared text concurrently, without
// anybody to answer permission prompts.
package batch

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/sw33tLie/geoshare/pkg/conversion"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/storage"
)

// Config holds everything Convert needs.
type Config struct {
	Env         conversion.Env
	DB          *storage.DB   // optional; every result is added to the history
	Concurrency int           // defaults to 5 if <= 0
	Log         inputs.Logger // optional; nil = no logging

	// OnItemDone is called per item from worker goroutines, so the CLI can
	// print results as they come in. Nil = no callback.
	OnItemDone func(item Item)
}

// Item is the outcome of converting one line.
type Item struct {
	Index int
	Text  string
	State conversion.State
}

// Succeeded reports whether the item converted.
func (i Item) Succeeded() bool {
	_, ok := i.State.(conversion.Succeeded)
	return ok
}

// Result holds every item in input order.
type Result struct {
	Items     []Item
	Succeeded int
	Failed    int
	Errors    []error // non-fatal errors, such as history writes
}

// Convert converts texts concurrently. Prompts are denied without being
// persisted unless cfg.Env carries a Prompter.
func Convert(ctx context.Context, cfg Config, texts []string) *Result {
	log := cfg.Log
	if log == nil {
		log = inputs.NopLogger{}
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	env := cfg.Env
	if env.Prompter == nil {
		env.Prompter = conversion.DenyPrompter
	}
	if env.Log == nil {
		env.Log = log
	}

	result := &Result{Items: make([]Item, len(texts))}
	if len(texts) == 0 {
		return result
	}

	indexChan := make(chan int, len(texts))
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexChan {
				item := Item{Index: idx, Text: texts[idx]}
				item.State = conversion.Run(ctx, &env, item.Text)

				var recordErr error
				if cfg.DB != nil {
					if _, err := cfg.DB.RecordConversion(ctx, Record(item.Text, item.State)); err != nil {
						log.Warnf("Could not record conversion of %q: %v", item.Text, err)
						recordErr = err
					}
				}

				mu.Lock()
				result.Items[idx] = item
				if item.Succeeded() {
					result.Succeeded++
				} else {
					result.Failed++
				}
				if recordErr != nil {
					result.Errors = append(result.Errors, recordErr)
				}
				mu.Unlock()

				if cfg.OnItemDone != nil {
					cfg.OnItemDone(item)
				}
			}
		}()
	}

	for i := range texts {
		indexChan <- i
	}
	close(indexChan)
	wg.Wait()

	return result
}

// ReadLines returns the non-empty lines of r, skipping lines starting with
// '#'.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

// Record turns the terminal state of a conversion of text into a history
// record.
func Record(text string, s conversion.State) storage.Conversion {
	rec := storage.Conversion{Text: text, Input: "unknown"}
	switch s := s.(type) {
	case conversion.Succeeded:
		rec.Status = storage.StatusSucceeded
		if s.Input != nil {
			rec.Input = s.Input.Name()
		}
		rec.Link = s.URI.String(nil)
		rec.Q = s.Position.Q
		rec.Points = len(s.Position.Points)
		rec.Zoom = s.Position.EffectiveZoom()
		if p, ok := s.Position.MainPoint(); ok {
			rec.HasPoint = true
			rec.Lat, rec.Lon, rec.Name = p.Lat, p.Lon, p.Name
		}
	case conversion.Failed:
		rec.Status = storage.StatusFailed
		rec.Failure = s.Kind.String()
		if s.Input != nil {
			rec.Input = s.Input.Name()
		}
	default:
		rec.Status = storage.StatusFailed
		rec.Failure = "unfinished conversion in state " + conversion.Name(s)
	}
	return rec
}
