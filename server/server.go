// Package server exposes a loaded SEM-I over a JSON HTTP API, for
// grammar developers inspecting a hierarchy and for tools that consume
// semantic interfaces remotely.
package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/c360studio/semi"
)

// maxRequestBodySize limits POST body sizes to prevent DoS.
const maxRequestBodySize = 1 << 20 // 1 MB

// Server serves inspection queries against a SEM-I. The underlying
// SemI is swappable so a file watcher can publish a freshly built
// snapshot without restarting the server.
type Server struct {
	mu     sync.RWMutex
	sem    *semi.SemI
	logger *slog.Logger
}

// New creates a Server over the given SemI. A nil logger falls back to
// slog.Default.
func New(s *semi.SemI, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{sem: s, logger: logger}
}

// Swap replaces the served SemI. In-flight requests keep the snapshot
// they started with.
func (s *Server) Swap(next *semi.SemI) {
	s.mu.Lock()
	s.sem = next
	s.mu.Unlock()
	s.logger.Info("Swapped SEM-I snapshot", slog.String("source", next.Source()))
}

// current returns the SemI to answer this request with.
func (s *Server) current() *semi.SemI {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sem
}

// Handler returns the full HTTP handler: all routes registered on a
// ServeMux, wrapped in request-ID and logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterHTTPHandlers(mux)
	return s.withRequestID(mux)
}

// RegisterHTTPHandlers registers all inspection routes on mux:
//
//	GET  /semi/info
//	GET  /semi/document
//	GET  /semi/types/{type}/ancestors
//	GET  /semi/types/{type}/descendants
//	GET  /semi/subsumes?a=X&b=Y
//	GET  /semi/compatible?a=X&b=Y
//	GET  /semi/variables/{var}/properties
//	GET  /semi/roles/{role}
//	GET  /semi/predicates/{pred}
//	POST /semi/predicates/{pred}/match
func (s *Server) RegisterHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /semi/info", s.handleInfo)
	mux.HandleFunc("GET /semi/document", s.handleDocument)
	mux.HandleFunc("GET /semi/types/{type}/ancestors", s.handleAncestors)
	mux.HandleFunc("GET /semi/types/{type}/descendants", s.handleDescendants)
	mux.HandleFunc("GET /semi/subsumes", s.handleSubsumes)
	mux.HandleFunc("GET /semi/compatible", s.handleCompatible)
	mux.HandleFunc("GET /semi/variables/{var}/properties", s.handleVariableProperties)
	mux.HandleFunc("GET /semi/roles/{role}", s.handleRole)
	mux.HandleFunc("GET /semi/predicates/{pred}", s.handlePredicate)
	mux.HandleFunc("POST /semi/predicates/{pred}/match", s.handleMatch)
}

// withRequestID tags every request with a request ID, echoes it in the
// response headers, and logs completion.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
		s.logger.Debug("Handled request",
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path))
	})
}
