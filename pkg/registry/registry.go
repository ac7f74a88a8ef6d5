// Package registry holds the ordered list of inputs and picks the one that
// handles a piece of shared text.
package registry

import (
	"strings"

	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/inputs/amap"
	"github.com/sw33tLie/geoshare/pkg/inputs/applemaps"
	"github.com/sw33tLie/geoshare/pkg/inputs/baidumap"
	"github.com/sw33tLie/geoshare/pkg/inputs/bingmaps"
	"github.com/sw33tLie/geoshare/pkg/inputs/coordinates"
	"github.com/sw33tLie/geoshare/pkg/inputs/geouri"
	"github.com/sw33tLie/geoshare/pkg/inputs/googlemaps"
	"github.com/sw33tLie/geoshare/pkg/inputs/herewego"
	"github.com/sw33tLie/geoshare/pkg/inputs/magicearth"
	"github.com/sw33tLie/geoshare/pkg/inputs/mapycz"
	"github.com/sw33tLie/geoshare/pkg/inputs/openstreetmap"
	"github.com/sw33tLie/geoshare/pkg/inputs/organicmaps"
	"github.com/sw33tLie/geoshare/pkg/inputs/osmand"
	"github.com/sw33tLie/geoshare/pkg/inputs/twogis"
	"github.com/sw33tLie/geoshare/pkg/inputs/waze"
	"github.com/sw33tLie/geoshare/pkg/inputs/yandexmaps"
)

// Registry is an ordered, read-only list of inputs.
type Registry struct {
	inputs []inputs.Input
}

// New returns a registry that tries the inputs in the order given.
func New(in ...inputs.Input) *Registry {
	return &Registry{inputs: append([]inputs.Input(nil), in...)}
}

// Default returns every supported input. Named services come first; the
// geo: URI and plain coordinate inputs would match parts of their links, so
// they are tried last, in that order.
func Default() *Registry {
	return New(
		googlemaps.Input{},
		applemaps.Input{},
		bingmaps.Input{},
		openstreetmap.Input{},
		herewego.Input{},
		waze.Input{},
		yandexmaps.Input{},
		mapycz.Input{},
		magicearth.Input{},
		organicmaps.Input{},
		osmand.Input{},
		amap.Input{},
		baidumap.Input{},
		twogis.Input{},
		geouri.Input{},
		coordinates.Input{},
	)
}

// Inputs returns the inputs in selection order.
func (r *Registry) Inputs() []inputs.Input {
	return append([]inputs.Input(nil), r.inputs...)
}

// Select returns the first input that recognises text, together with the
// link it found. No other input is consulted.
func (r *Registry) Select(text string) (inputs.Input, string, bool) {
	for _, in := range r.inputs {
		if link, ok := in.Recognize(text); ok {
			return in, link, true
		}
	}
	return nil, "", false
}

// ByName returns the input with the given name.
func (r *Registry) ByName(name string) (inputs.Input, bool) {
	for _, in := range r.inputs {
		if in.Name() == name {
			return in, true
		}
	}
	return nil, false
}

// Markdown documents every input, in selection order.
func (r *Registry) Markdown() string {
	var b strings.Builder
	b.WriteString("# Supported links\n\n")
	for _, in := range r.inputs {
		b.WriteString(in.Documentation().Markdown())
	}
	return b.String()
}
