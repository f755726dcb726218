package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quic-go/quic-go/http3"

	"HashRevealer/internal/coordinator"
	"HashRevealer/internal/errors"
	"HashRevealer/internal/logger"
)

const (
	// maxBodySize is the maximum commit request size in bytes.
	maxBodySize = 1 << 20 // 1 MB

	// writeTimeoutMargin is added to the wait timeout to bound response writes.
	writeTimeoutMargin = 10 * time.Second

	// DefaultDocsURL is where the root path redirects.
	DefaultDocsURL = "https://github.com/voltrevo/trusted-hash-revealer"
)

// Config configures the HTTP transport.
type Config struct {
	Address     string        // Address is the HTTP/1.1 and HTTP/2 listen address
	H3Address   string        // H3Address is the HTTP/3 UDP listen address; empty disables HTTP/3
	TLSConfig   *tls.Config   // TLSConfig is required when H3Address is set
	DocsURL     string        // DocsURL is the redirect target for "/"
	ReadTimeout time.Duration // ReadTimeout bounds reading a request
	WaitTimeout time.Duration // WaitTimeout is the coordinator's wait bound; zero means unbounded
}

// Server is the HTTP API server. Each registered coordinator is reachable
// at POST /<algorithm name>.
type Server struct {
	cfg      Config
	services map[string]*coordinator.Service // services by algorithm name
	handler  http.Handler                    // handler is shared by both listeners
	server   *http.Server                    // server is the TCP server
	listener net.Listener                    // listener is the bound TCP listener
	h3       *http3.Server                   // h3 is the optional HTTP/3 server
	h3Conn   net.PacketConn                  // h3Conn is the bound UDP socket
}

// New creates a server routing to the given coordinators.
func New(cfg Config, services ...*coordinator.Service) *Server {
	if cfg.DocsURL == "" {
		cfg.DocsURL = DefaultDocsURL
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}

	s := &Server{
		cfg:      cfg,
		services: make(map[string]*coordinator.Service, len(services)),
	}

	for _, svc := range services {
		s.services[svc.Algorithm().Name()] = svc
	}

	s.handler = s.routes()

	return s
}

// Handler returns the server's root handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// routes builds the mux and wraps it with the middleware chain.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/{algorithm}", s.handleCommit)
	mux.HandleFunc("/", s.handleNotFound)

	var h http.Handler = mux
	h = withRequestID(h)
	h = gzhttp.GzipHandler(h)
	h = withCORS(h)

	return h
}

// Start binds the listeners and serves in background goroutines.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.cfg.Address)
	}

	s.listener = ln
	s.server = &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.writeTimeout(),
		IdleTimeout:       2 * time.Minute,
	}

	if s.cfg.H3Address != "" {
		if err := s.startH3(); err != nil {
			ln.Close()
			return err
		}
	}

	go func() {
		logger.Info("http api started", "addr", ln.Addr().String())

		if err := s.server.Serve(ln); err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
		}
	}()

	return nil
}

// startH3 binds the UDP socket and serves HTTP/3.
func (s *Server) startH3() error {
	if s.cfg.TLSConfig == nil {
		return errors.New("http3 requires a TLS config")
	}

	conn, err := net.ListenPacket("udp", s.cfg.H3Address)
	if err != nil {
		return errors.Wrapf(err, "listen on udp %s", s.cfg.H3Address)
	}

	s.h3Conn = conn
	s.h3 = &http3.Server{
		Handler:   s.handler,
		TLSConfig: http3.ConfigureTLSConfig(s.cfg.TLSConfig),
	}

	go func() {
		logger.Info("http3 api started", "addr", conn.LocalAddr().String())

		if err := s.h3.Serve(conn); err != nil && !errors.IsAny(err, http.ErrServerClosed, net.ErrClosed) {
			logger.Error("http3 server error", "error", err)
		}
	}()

	return nil
}

// writeTimeout allows a full wait plus margin; zero when waits are unbounded.
func (s *Server) writeTimeout() time.Duration {
	if s.cfg.WaitTimeout <= 0 {
		return 0
	}
	return s.cfg.WaitTimeout + writeTimeoutMargin
}

// Addr returns the bound TCP address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.Address
	}
	return s.listener.Addr().String()
}

// H3Addr returns the bound UDP address, or "" when HTTP/3 is disabled.
func (s *Server) H3Addr() string {
	if s.h3Conn == nil {
		return ""
	}
	return s.h3Conn.LocalAddr().String()
}

// Stop gracefully shuts down the servers. Pending commit calls are
// abandoned once the shutdown deadline passes.
func (s *Server) Stop() error {
	var firstErr error

	if s.h3 != nil {
		if err := s.h3.Close(); err != nil {
			firstErr = err
		}
		s.h3Conn.Close()
	}

	if s.server == nil {
		return firstErr
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.server.Close()
		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// errorBody is the payload of every failed request.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message})
}
