package api

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"family-dashboard/cache"
	"family-dashboard/dlog"
	"family-dashboard/models"

	"github.com/google/uuid"
)

// SnapshotSource produces the data behind one page render
type SnapshotSource interface {
	Collect(ctx context.Context) models.Snapshot
	Refresh() error
	Stats() (cache.Stats, error)
}

// Server represents the dashboard HTTP server
type Server struct {
	source SnapshotSource
	server *http.Server
	page   *template.Template
	logger *dlog.Logger
	now    func() time.Time
}

// NewServer creates a new dashboard server listening on addr
func NewServer(source SnapshotSource, addr string, logger *dlog.Logger) *Server {
	if logger == nil {
		logger = dlog.Discard()
	}

	mux := http.NewServeMux()

	server := &Server{
		source: source,
		page:   pageTemplate,
		logger: logger,
		now:    time.Now,
	}
	server.server = &http.Server{
		Addr:              addr,
		Handler:           server.withRequestLog(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Page and manual refresh
	mux.HandleFunc("/", server.handleIndex)
	mux.HandleFunc("/refresh", server.handleRefresh)

	// JSON view of the same data
	mux.HandleFunc("/api/panels", server.handlePanels)

	// Health check
	mux.HandleFunc("/api/health", server.handleHealthCheck)

	return server
}

// Handler returns the root handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins the HTTP server
func (s *Server) Start() error {
	s.logger.Printf("Starting dashboard on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleIndex renders the dashboard page
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := s.source.Collect(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, newPageData(snapshot, s.now())); err != nil {
		s.logger.Printf("Error rendering page %s: %v", snapshot.ID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleRefresh clears every cached panel and sends the browser back to the page
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.source.Refresh(); err != nil {
		s.logger.Printf("Error clearing cache: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handlePanels returns the snapshot as JSON
func (s *Server) handlePanels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := s.source.Collect(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(snapshot)
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
	}
	if stats, err := s.source.Stats(); err == nil {
		response["cache"] = stats
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLog tags each request with an ID and logs one line when it completes
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.logger.Printf("%s %s %s %d %s", id, r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
