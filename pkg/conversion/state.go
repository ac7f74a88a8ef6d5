package conversion

import (
	"fmt"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

// State is one step of a conversion. The set of states is closed; every
// state is an immutable value and a transition always returns a new one.
type State interface {
	isState()
}

// Initial is the state before any text was received.
type Initial struct{}

// ReceivedText holds the text the user shared.
type ReceivedText struct {
	Text string
}

// ReceivedURI holds the link found in the text and the input that
// recognised it. Allowed is set once a redirect was resolved: from then on
// this conversion goes online without asking again. It is never persisted.
type ReceivedURI struct {
	Input   inputs.Input
	URI     uri.URI
	Allowed bool
}

// AwaitingUnshortenPermission waits for the user to allow resolving a short
// link.
type AwaitingUnshortenPermission struct {
	Input inputs.Input
	URI   uri.URI
}

// ResolvingShortLink sends the one request that reveals where a short link
// points to.
type ResolvingShortLink struct {
	Input inputs.Input
	URI   uri.URI
}

// ExtractedFromURI runs the input's link parser.
type ExtractedFromURI struct {
	Input   inputs.Input
	URI     uri.URI
	Allowed bool
}

// AwaitingHTMLPermission waits for the user to allow downloading the page
// at HTMLURL. Position is what the link alone yielded.
type AwaitingHTMLPermission struct {
	Input    inputs.Input
	URI      uri.URI
	Position geo.Position
	HTMLURL  string
}

// FetchingHTML downloads HTMLURL and scans it for coordinates.
type FetchingHTML struct {
	Input    inputs.Input
	URI      uri.URI
	Position geo.Position
	HTMLURL  string
}

// Succeeded is terminal. Position is in WGS84.
type Succeeded struct {
	Input    inputs.Input
	URI      uri.URI
	Position geo.Position
}

// Failed is terminal. Err carries the underlying cause when there is one.
type Failed struct {
	Kind  FailureKind
	Input inputs.Input
	Err   error
}

func (Initial) isState()                     {}
func (ReceivedText) isState()                {}
func (ReceivedURI) isState()                 {}
func (AwaitingUnshortenPermission) isState() {}
func (ResolvingShortLink) isState()          {}
func (ExtractedFromURI) isState()            {}
func (AwaitingHTMLPermission) isState()      {}
func (FetchingHTML) isState()                {}
func (Succeeded) isState()                   {}
func (Failed) isState()                      {}

// Terminal reports whether s ends a conversion.
func Terminal(s State) bool {
	switch s.(type) {
	case Succeeded, Failed:
		return true
	}
	return false
}

// Name returns a short name of the state for logs.
func Name(s State) string {
	switch s.(type) {
	case Initial:
		return "initial"
	case ReceivedText:
		return "received_text"
	case ReceivedURI:
		return "received_uri"
	case AwaitingUnshortenPermission:
		return "awaiting_unshorten_permission"
	case ResolvingShortLink:
		return "resolving_short_link"
	case ExtractedFromURI:
		return "extracted_from_uri"
	case AwaitingHTMLPermission:
		return "awaiting_html_permission"
	case FetchingHTML:
		return "fetching_html"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("%T", s)
}

// FailureKind says why a conversion failed.
type FailureKind int

const (
	UnsupportedService FailureKind = iota + 1
	MalformedLink
	UnshortenError
	ConnectionError
	UnexpectedResponseStatus
	HTMLParseError
	PermissionDenied
	Cancelled
	// ParseError covers links nothing could be extracted from and unexpected
	// failures inside a transition.
	ParseError
	// MaxIterationsExceeded is a defect, not something the user caused.
	MaxIterationsExceeded
)

var failureMessages = map[FailureKind]string{
	UnsupportedService:       "no supported map link or coordinates found",
	MalformedLink:            "the link is malformed",
	UnshortenError:           "the short link could not be resolved",
	ConnectionError:          "could not connect to the map service",
	UnexpectedResponseStatus: "the map service answered with an unexpected status",
	HTMLParseError:           "no coordinates found on the web page",
	PermissionDenied:         "network access was not allowed",
	Cancelled:                "the conversion was cancelled",
	ParseError:               "no coordinates could be extracted from the link",
	MaxIterationsExceeded:    "internal error: too many conversion steps",
}

var failureCodes = map[FailureKind]string{
	UnsupportedService:       "unsupported_service",
	MalformedLink:            "malformed_link",
	UnshortenError:           "unshorten_error",
	ConnectionError:          "connection_error",
	UnexpectedResponseStatus: "unexpected_response_status",
	HTMLParseError:           "html_parse_error",
	PermissionDenied:         "permission_denied",
	Cancelled:                "cancelled",
	ParseError:               "parse_error",
	MaxIterationsExceeded:    "max_iterations_exceeded",
}

// Code returns a stable identifier for APIs and metrics.
func (k FailureKind) Code() string {
	if c, ok := failureCodes[k]; ok {
		return c
	}
	return "unknown"
}

// String returns a message that can be shown to the user.
func (k FailureKind) String() string {
	if m, ok := failureMessages[k]; ok {
		return m
	}
	return fmt.Sprintf("FailureKind(%d)", int(k))
}

func (f Failed) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Kind, f.Err)
	}
	return f.Kind.String()
}

func (f Failed) Unwrap() error { return f.Err }
