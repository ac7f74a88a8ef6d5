package server

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/sw33tLie/geoshare/internal/utils"
	"github.com/sw33tLie/geoshare/pkg/conversion"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/storage"
)

// Server exposes conversions over HTTP. Nobody can answer permission prompts
// there, so only permissions already set to always allow network access.
type Server struct {
	Env      conversion.Env
	DB       *storage.DB   // optional; nil disables history and stats
	Lock     *utils.DBLock // optional; held around history writes
	Username string
	Password string
	Log      inputs.Logger

	docs    []byte
	metrics *metrics
}

func New(env conversion.Env, db *storage.DB, user, pass string) *Server {
	env.Prompter = conversion.DenyPrompter
	return &Server{
		Env:      env,
		DB:       db,
		Username: user,
		Password: pass,
		Log:      env.Log,
		metrics:  newMetrics(),
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	if s.Log == nil {
		s.Log = inputs.NopLogger{}
	}
	if s.metrics == nil {
		s.metrics = newMetrics()
	}
	if s.docs == nil {
		p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
		var buf bytes.Buffer
		docsPage(markdown.ToHTML([]byte(s.Env.Registry.Markdown()), p, nil)).Render(&buf)
		s.docs = buf.Bytes()
	}

	mux := http.NewServeMux()

	// API Group
	mux.Handle("GET /api/convert", s.basicAuth(http.HandlerFunc(s.handleConvert)))
	mux.Handle("GET /api/inputs", s.basicAuth(http.HandlerFunc(s.handleInputs)))
	mux.Handle("GET /api/history", s.basicAuth(http.HandlerFunc(s.handleHistory)))
	mux.Handle("GET /api/stats", s.basicAuth(http.HandlerFunc(s.handleStats)))
	mux.Handle("GET /api/ws", s.basicAuth(http.HandlerFunc(s.handleWebSocket)))
	mux.Handle("GET /metrics", s.basicAuth(s.metrics.handler()))

	// Documentation
	mux.Handle("GET /{$}", s.basicAuth(http.HandlerFunc(s.handleDocs)))

	return mux
}

func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.Log.Infof("Starting server on %s", addr)
	return srv.ListenAndServe()
}

func (s *Server) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// docsPage wraps the rendered input documentation in a page.
func docsPage(body []byte) g.Node {
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(Lang("en"),
			Head(
				Meta(Charset("UTF-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				g.El("title", g.Text("geoshare")),
			),
			Body(
				Main(g.Raw(string(body))),
			),
		),
	})
}
