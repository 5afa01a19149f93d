// Package preview serves the published dependency graph over HTTP so it can
// be inspected in a browser while iterating on the workspace layout.
//
// Routes:
//
//	GET  /            HTML page embedding the graph
//	GET  /graph.svg   the published artifact
//	GET  /graph.dot   a freshly extracted graph description
//	POST /build       run the full pipeline and republish
//	GET  /healthz     liveness
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	wserrors "github.com/matzehuels/wsgraph/pkg/errors"
	"github.com/matzehuels/wsgraph/pkg/pipeline"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second

	contentTypeSVG = "image/svg+xml"
	contentTypeDOT = "text/vnd.graphviz; charset=utf-8"
)

// Builder runs the pipeline. *pipeline.Runner implements it.
type Builder interface {
	Execute(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error)
	Describe(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error)
}

// Server is the preview HTTP server.
type Server struct {
	builder Builder
	opts    pipeline.Options
	logger  *log.Logger

	// mu serializes builds so two requests never publish concurrently.
	mu sync.Mutex
}

// New creates a preview server for the given pipeline options.
func New(b Builder, opts pipeline.Options, logger *log.Logger) (*Server, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{builder: b, opts: opts, logger: logger}, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/graph.svg", s.handleSVG)
	r.Get("/graph.dot", s.handleDOT)
	r.Post("/build", s.handleBuild)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

// Serve listens on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return wserrors.Wrap(wserrors.ErrCodeConfiguration, err, "listen on %s", addr)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", "http://"+ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down preview server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{.Name}} dependency graph</title></head>
<body>
<h1>{{.Name}}</h1>
<form method="post" action="/build"><button type="submit">Rebuild</button></form>
<p><a href="/graph.dot">graph.dot</a></p>
<img src="/graph.svg" alt="{{.Name}} dependency graph">
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, struct{ Name string }{s.opts.GraphName}); err != nil {
		s.logger.Warn("render index", "err", err)
	}
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.opts.ArtifactPath())
	if os.IsNotExist(err) {
		http.Error(w, "graph not published yet; POST /build", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeSVG)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	res, err := s.builder.Describe(r.Context(), s.opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeDOT)
	_, _ = w.Write(res.Description)
}

// buildResponse is the JSON body returned by POST /build.
type buildResponse struct {
	State         pipeline.State `json:"state"`
	FailedStage   pipeline.State `json:"failed_stage,omitempty"`
	Excluded      []string       `json:"excluded"`
	PublishedPath string         `json:"published_path,omitempty"`
	CacheHit      bool           `json:"cache_hit"`
	Error         string         `json:"error,omitempty"`
	Code          wserrors.Code  `json:"code,omitempty"`
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	res, err := s.builder.Execute(r.Context(), s.opts)
	s.mu.Unlock()

	body := buildResponse{}
	if res != nil {
		body.State = res.State
		body.FailedStage = res.FailedStage
		body.Excluded = res.Excluded
		body.PublishedPath = res.PublishedPath
		body.CacheHit = res.CacheHit
	}
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		body.Error = err.Error()
		body.Code = wserrors.GetCode(err)
		s.logger.Error("build failed", "err", err)
	}
	writeJSON(w, status, body)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", "err", err)
	http.Error(w, err.Error(), statusFor(err))
}

func statusFor(err error) int {
	switch wserrors.GetCode(err) {
	case wserrors.ErrCodeConfiguration, wserrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case wserrors.ErrCodeBuild:
		return http.StatusUnprocessableEntity
	case wserrors.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
			"id", middleware.GetReqID(r.Context()))
	})
}
