// Package inputs defines the per-service recognisers ("inputs") and the
// helpers they share. Each mapping service lives in its own sub-package;
// package registry puts them in order.
package inputs

import (
	"fmt"
	"strings"
)

// Documentation describes what an input understands, for the inputs command
// and the HTTP API.
type Documentation struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Examples    []string `json:"examples"`
	ShortLinks  []string `json:"short_links,omitempty"`
	HTML        bool     `json:"html"`
}

// Markdown renders the documentation as a markdown section.
func (d Documentation) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", d.Title)
	if d.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", d.Description)
	}
	for _, e := range d.Examples {
		fmt.Fprintf(&b, "- `%s`\n", e)
	}
	for _, s := range d.ShortLinks {
		fmt.Fprintf(&b, "- `%s` (short link)\n", s)
	}
	if d.HTML {
		b.WriteString("\nLinks without coordinates are looked up on the web page they point to.\n")
	}
	b.WriteString("\n")
	return b.String()
}
