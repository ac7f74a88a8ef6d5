package uri

import (
	"net/url"
	"strings"
)

// Codec percent-encodes and decodes query components.
type Codec interface {
	Encode(s string) string
	Decode(s string) string
}

type queryCodec struct{}

func (queryCodec) Encode(s string) string { return url.QueryEscape(s) }

func (queryCodec) Decode(s string) string {
	d, err := url.QueryUnescape(s)
	if err != nil {
		// Shared links often carry stray '%' signs; keep them verbatim.
		return strings.ReplaceAll(s, "+", " ")
	}
	return d
}

type readableCodec struct{ queryCodec }

var readableEscaper = strings.NewReplacer(
	"%", "%25",
	"&", "%26",
	"#", "%23",
	"+", "%2B",
	"=", "%3D",
	"?", "%3F",
	" ", "+",
)

func (readableCodec) Encode(s string) string { return readableEscaper.Replace(s) }

var (
	// DefaultCodec escapes everything net/url would escape in a query.
	DefaultCodec Codec = queryCodec{}

	// ReadableCodec only escapes characters that would change the structure
	// of a query, so coordinates and non-ASCII names stay legible. Its output
	// does not depend on the platform, which makes it handy in tests.
	ReadableCodec Codec = readableCodec{}
)
