// Package http serves docframe documentation, help and assets over HTTP
// using the chi router.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/docframe"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ShutdownTimeout is the time given to in-flight requests on Close.
const ShutdownTimeout = 5 * time.Second

// Server serves the documentation API and static assets.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router
	errc   chan error

	addr   string
	logger *slog.Logger

	config    *docframe.Config
	documents docframe.DocumentService

	staticKey      string
	frameStaticKey string

	metrics        func(http.Handler) http.Handler
	metricsHandler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. Defaults to ":8080".
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithListener serves on ln instead of listening on the configured address.
func WithListener(ln net.Listener) Option {
	return func(s *Server) {
		s.ln = ln
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStaticKeys names the roots serving /static/ and /static/frame/.
// Templates are read from the frame static root.
func WithStaticKeys(static, frameStatic string) Option {
	return func(s *Server) {
		s.staticKey = static
		s.frameStaticKey = frameStatic
	}
}

// WithMetrics installs request metrics middleware and the /metrics handler.
func WithMetrics(mw func(http.Handler) http.Handler, handler http.Handler) Option {
	return func(s *Server) {
		s.metrics = mw
		s.metricsHandler = handler
	}
}

// NewServer creates a Server for cfg reading documents through documents.
func NewServer(cfg *docframe.Config, documents docframe.DocumentService, opts ...Option) *Server {
	s := &Server{
		addr:      ":8080",
		logger:    slog.New(slog.DiscardHandler),
		config:    cfg,
		documents: documents,
		router:    chi.NewRouter(),
		errc:      make(chan error, 1),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(requestID)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
	if s.metrics != nil {
		s.router.Use(s.metrics)
	}
	s.routes()

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// ServeHTTP dispatches to the router. It allows the server to be exercised
// without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open starts listening and serves requests in the background. A serving
// failure is delivered on Err.
func (s *Server) Open() error {
	if s.ln == nil {
		ln, err := net.Listen("tcp", s.addr)
		if err != nil {
			return err
		}
		s.ln = ln
	}

	go func() {
		defer close(s.errc)
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", "err", err)
			s.errc <- err
		}
	}()
	return nil
}

// Err returns a channel receiving the error that stopped serving. It is
// closed once serving ends.
func (s *Server) Err() <-chan error {
	return s.errc
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Port returns the bound port, or 0 before Open.
func (s *Server) Port() int {
	if s.ln == nil {
		return 0
	}
	return s.ln.Addr().(*net.TCPAddr).Port
}

// URL returns the local base URL of the server.
func (s *Server) URL() string {
	host, _, _ := net.SplitHostPort(s.addr)
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(s.Port()))
}
