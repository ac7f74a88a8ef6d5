package conversion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/permissions"
	"github.com/sw33tLie/geoshare/pkg/registry"
	"github.com/sw33tLie/geoshare/pkg/uri"
	"github.com/sw33tLie/geoshare/pkg/whttp"
)

// Network is what a conversion needs from the outside world. Every call is a
// single attempt; retries are the implementation's business.
// *whttp.Client implements it.
type Network interface {
	ResolveRedirect(ctx context.Context, method, url string) (string, error)
	FetchBody(ctx context.Context, url string) (io.ReadCloser, error)
}

// Request asks the user whether a conversion may go online.
type Request struct {
	Category permissions.Category
	URL      string
	Input    string
}

// Decision is the user's answer. Persist stores it as Always or Never.
type Decision struct {
	Granted bool
	Persist bool
}

// Prompter asks the user. Prompt blocks until the user answers or ctx is
// done.
type Prompter interface {
	Prompt(ctx context.Context, req Request) (Decision, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, req Request) (Decision, error)

// Prompt implements Prompter.
func (f PrompterFunc) Prompt(ctx context.Context, req Request) (Decision, error) { return f(ctx, req) }

// DenyPrompter answers every request with a non-persisted no, for callers
// that cannot ask anybody.
var DenyPrompter = PrompterFunc(func(context.Context, Request) (Decision, error) {
	return Decision{}, nil
})

// Env holds the collaborators of a conversion.
type Env struct {
	Registry    *registry.Registry
	Network     Network
	Permissions permissions.Store
	Prompter    Prompter
	Log         inputs.Logger
	// Codec decodes query values of shared links; DefaultCodec when nil.
	Codec uri.Codec
}

func (env *Env) logger() inputs.Logger {
	if env.Log == nil {
		return inputs.NopLogger{}
	}
	return env.Log
}

// ErrTerminal is returned by Transition for terminal states.
var ErrTerminal = errors.New("state is terminal")

// Transition computes the state that follows s. Only network requests and
// permission prompts block; both give up when ctx is done.
func Transition(ctx context.Context, env *Env, s State) (State, error) {
	switch s := s.(type) {
	case Initial:
		return s, nil
	case ReceivedText:
		return receivedText(env, s), nil
	case ReceivedURI:
		return receivedURI(ctx, env, s), nil
	case AwaitingUnshortenPermission:
		return awaitUnshorten(ctx, env, s), nil
	case ResolvingShortLink:
		return resolveShortLink(ctx, env, s), nil
	case ExtractedFromURI:
		return extractedFromURI(ctx, env, s), nil
	case AwaitingHTMLPermission:
		return awaitHTML(ctx, env, s), nil
	case FetchingHTML:
		return fetchHTML(ctx, env, s), nil
	case Succeeded, Failed:
		return s, ErrTerminal
	}
	return nil, fmt.Errorf("unknown state %T", s)
}

func receivedText(env *Env, s ReceivedText) State {
	in, link, ok := env.Registry.Select(s.Text)
	if !ok {
		return Failed{Kind: UnsupportedService}
	}
	u, err := uri.ParseLink(link, env.Codec)
	if err != nil {
		return Failed{Kind: MalformedLink, Input: in, Err: err}
	}
	env.logger().Debugf("%s recognised %s", in.Name(), link)
	return ReceivedURI{Input: in, URI: u}
}

func receivedURI(ctx context.Context, env *Env, s ReceivedURI) State {
	sl, ok := s.Input.(inputs.ShortLinker)
	if !ok || !sl.IsShortLink(s.URI) {
		return ExtractedFromURI{Input: s.Input, URI: s.URI, Allowed: s.Allowed}
	}
	if s.Allowed {
		return ResolvingShortLink{Input: s.Input, URI: s.URI}
	}
	perm, err := env.Permissions.Get(ctx, permissions.Unshorten)
	if err != nil {
		env.logger().Warnf("reading unshorten permission: %v", err)
		perm = permissions.Ask
	}
	switch perm {
	case permissions.Always:
		return ResolvingShortLink{Input: s.Input, URI: s.URI}
	case permissions.Never:
		return Failed{Kind: PermissionDenied, Input: s.Input}
	default:
		return AwaitingUnshortenPermission{Input: s.Input, URI: s.URI}
	}
}

func awaitUnshorten(ctx context.Context, env *Env, s AwaitingUnshortenPermission) State {
	granted, err := ask(ctx, env, permissions.Unshorten, Request{
		Category: permissions.Unshorten,
		URL:      s.URI.String(env.Codec),
		Input:    s.Input.Name(),
	})
	if err != nil {
		return Failed{Kind: Cancelled, Input: s.Input, Err: err}
	}
	if !granted {
		return Failed{Kind: PermissionDenied, Input: s.Input}
	}
	return ResolvingShortLink{Input: s.Input, URI: s.URI}
}

func resolveShortLink(ctx context.Context, env *Env, s ResolvingShortLink) State {
	method := http.MethodHead
	if sl, ok := s.Input.(inputs.ShortLinker); ok {
		method = sl.ShortLinkMethod()
	}
	link := s.URI.String(env.Codec)
	env.logger().Debugf("resolving %s with %s", link, method)
	location, err := env.Network.ResolveRedirect(ctx, method, link)
	if err != nil {
		return networkFailure(s.Input, err, UnshortenError)
	}
	target, err := uri.Parse(location, env.Codec)
	if err != nil {
		return Failed{Kind: UnshortenError, Input: s.Input, Err: fmt.Errorf("location %q: %w", location, err)}
	}
	target = target.ToAbsolute(s.URI)
	env.logger().Debugf("%s redirects to %s", link, target.String(env.Codec))
	return ReceivedURI{Input: s.Input, URI: target, Allowed: true}
}

func extractedFromURI(ctx context.Context, env *Env, s ExtractedFromURI) State {
	res, ok := s.Input.ParseURI(s.URI)
	if !ok {
		return Failed{Kind: ParseError, Input: s.Input}
	}
	if !res.RequiresHTML() {
		return succeeded(s.Input, s.URI, res.Position)
	}
	if _, ok := s.Input.(inputs.HTMLParser); !ok {
		return uriOnly(s.Input, s.URI, res.Position, ParseError)
	}

	next := FetchingHTML{Input: s.Input, URI: s.URI, Position: res.Position, HTMLURL: res.HTMLURL}
	if s.Allowed {
		return next
	}
	perm, err := env.Permissions.Get(ctx, permissions.FetchHTML)
	if err != nil {
		env.logger().Warnf("reading fetch_html permission: %v", err)
		perm = permissions.Ask
	}
	switch perm {
	case permissions.Always:
		return next
	case permissions.Never:
		return uriOnly(s.Input, s.URI, res.Position, PermissionDenied)
	default:
		return AwaitingHTMLPermission(next)
	}
}

func awaitHTML(ctx context.Context, env *Env, s AwaitingHTMLPermission) State {
	granted, err := ask(ctx, env, permissions.FetchHTML, Request{
		Category: permissions.FetchHTML,
		URL:      s.HTMLURL,
		Input:    s.Input.Name(),
	})
	if err != nil {
		return Failed{Kind: Cancelled, Input: s.Input, Err: err}
	}
	if !granted {
		return uriOnly(s.Input, s.URI, s.Position, PermissionDenied)
	}
	return FetchingHTML(s)
}

func fetchHTML(ctx context.Context, env *Env, s FetchingHTML) State {
	parser, ok := s.Input.(inputs.HTMLParser)
	if !ok {
		return uriOnly(s.Input, s.URI, s.Position, HTMLParseError)
	}
	env.logger().Debugf("fetching %s", s.HTMLURL)
	body, err := env.Network.FetchBody(ctx, s.HTMLURL)
	if err != nil {
		return networkFailure(s.Input, err, ConnectionError)
	}
	res, ok := parser.ParseHTML(&ctxReader{ctx: ctx, r: body}, s.Position, env.logger())
	body.Close()
	if ctx.Err() != nil {
		return Failed{Kind: Cancelled, Input: s.Input, Err: ctx.Err()}
	}
	if !ok {
		return uriOnly(s.Input, s.URI, s.Position, HTMLParseError)
	}
	if res.RedirectURL != "" {
		target, err := uri.Parse(res.RedirectURL, env.Codec)
		if err != nil {
			return Failed{Kind: HTMLParseError, Input: s.Input, Err: err}
		}
		base, err := uri.Parse(s.HTMLURL, env.Codec)
		if err == nil {
			target = target.ToAbsolute(base)
		}
		return ReceivedURI{Input: s.Input, URI: target, Allowed: true}
	}
	return succeeded(s.Input, s.URI, res.Position)
}

// ask runs a permission prompt and persists the answer when asked to.
func ask(ctx context.Context, env *Env, c permissions.Category, req Request) (bool, error) {
	if env.Prompter == nil {
		return false, nil
	}
	d, err := env.Prompter.Prompt(ctx, req)
	if err != nil {
		return false, err
	}
	if d.Persist {
		p := permissions.Never
		if d.Granted {
			p = permissions.Always
		}
		if err := env.Permissions.Set(ctx, c, p); err != nil {
			env.logger().Warnf("saving %s permission: %v", c, err)
		}
	}
	return d.Granted, nil
}

func succeeded(in inputs.Input, u uri.URI, pos geo.Position) State {
	return Succeeded{Input: in, URI: u, Position: pos.AsWGS84()}
}

// uriOnly settles for what the link alone yielded, failing with kind when
// that is nothing.
func uriOnly(in inputs.Input, u uri.URI, pos geo.Position, kind FailureKind) State {
	if pos.Empty() {
		return Failed{Kind: kind, Input: in}
	}
	return succeeded(in, u, pos)
}

// networkFailure maps a Network error to a failure kind. Errors the network
// does not classify get fallback.
func networkFailure(in inputs.Input, err error, fallback FailureKind) State {
	var (
		timeoutErr *whttp.TimeoutError
		connErr    *whttp.ConnectionError
		statusErr  *whttp.StatusError
	)
	kind := fallback
	switch {
	case errors.Is(err, context.Canceled):
		kind = Cancelled
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &timeoutErr), errors.As(err, &connErr):
		kind = ConnectionError
	case errors.As(err, &statusErr):
		kind = UnexpectedResponseStatus
	case errors.Is(err, whttp.ErrMissingLocation):
		kind = UnshortenError
	}
	return Failed{Kind: kind, Input: in, Err: err}
}

// ctxReader stops a page scan as soon as ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
