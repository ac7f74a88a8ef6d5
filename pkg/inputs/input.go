package inputs

import (
	"io"
	"net/http"
	"regexp"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

// Input recognises links of one mapping service and extracts positions from
// them. Implementations are stateless and safe for concurrent use.
type Input interface {
	Name() string
	Documentation() Documentation
	// Recognize cheaply decides whether text belongs to this service and
	// returns the link found in it. It extracts nothing.
	Recognize(text string) (string, bool)
	// ParseURI extracts a position from the link. ok is false when the link
	// carries nothing this input understands.
	ParseURI(u uri.URI) (res ParseURIResult, ok bool)
}

// ShortLinker is implemented by inputs whose service issues short links that
// must be resolved through an HTTP redirect first.
type ShortLinker interface {
	IsShortLink(u uri.URI) bool
	// ShortLinkMethod is http.MethodHead or http.MethodGet, whichever the
	// service answers with a redirect.
	ShortLinkMethod() string
}

// HTMLParser is implemented by inputs that can find coordinates in the web
// page a link points to. ParseHTML must stop reading as soon as it has what
// it needs.
type HTMLParser interface {
	ParseHTML(r io.Reader, fromURI geo.Position, log Logger) (res ParseHTMLResult, ok bool)
}

// ParseURIResult is what an input extracted from a link. A non-empty HTMLURL
// means the page at that address may hold better coordinates.
type ParseURIResult struct {
	Position geo.Position
	HTMLURL  string
}

// RequiresHTML reports whether the page at HTMLURL should be fetched.
func (r ParseURIResult) RequiresHTML() bool { return r.HTMLURL != "" }

// Succeeded wraps a position that needs no further work.
func Succeeded(pos geo.Position) (ParseURIResult, bool) {
	return ParseURIResult{Position: pos}, true
}

// SucceededRequiresHTML wraps a partial position and the page to fetch.
func SucceededRequiresHTML(pos geo.Position, htmlURL string) (ParseURIResult, bool) {
	return ParseURIResult{Position: pos, HTMLURL: htmlURL}, true
}

// ParseHTMLResult is either a position found in a page or a link found in it
// that should be followed instead.
type ParseHTMLResult struct {
	Position    geo.Position
	RedirectURL string
}

// HTMLSucceeded wraps a position found in a page.
func HTMLSucceeded(pos geo.Position) (ParseHTMLResult, bool) {
	return ParseHTMLResult{Position: pos}, true
}

// HTMLRequiresRedirect wraps a link found in a page.
func HTMLRequiresRedirect(link string) (ParseHTMLResult, bool) {
	return ParseHTMLResult{RedirectURL: link}, true
}

// Recognizer finds a link in shared text with a regular expression.
type Recognizer struct {
	re *regexp.Regexp
}

// NewRecognizer compiles expr; it panics on an invalid expression like
// regexp.MustCompile.
func NewRecognizer(expr string) Recognizer {
	return Recognizer{re: regexp.MustCompile(expr)}
}

// Recognize returns the leftmost match of the expression in text.
func (r Recognizer) Recognize(text string) (string, bool) {
	loc := r.re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[0]:loc[1]], true
}

// ShortLinks is a reusable ShortLinker built from a host/path expression
// matched against "host/path".
type ShortLinks struct {
	re     *regexp.Regexp
	method string
}

// NewShortLinks compiles expr, which is anchored and matched against
// "host/path" of a link.
func NewShortLinks(expr, method string) ShortLinks {
	return ShortLinks{re: regexp.MustCompile(`^(?:` + expr + `)$`), method: method}
}

// IsShortLink implements ShortLinker.
func (s ShortLinks) IsShortLink(u uri.URI) bool {
	if u.Host == "" {
		return false
	}
	return s.re.MatchString(u.Hostname() + u.Path)
}

// ShortLinkMethod implements ShortLinker.
func (s ShortLinks) ShortLinkMethod() string {
	if s.method == "" {
		return http.MethodHead
	}
	return s.method
}
