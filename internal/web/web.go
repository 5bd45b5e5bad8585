package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"creatorflow/internal/ai"
	"creatorflow/internal/calendar"
	appLog "creatorflow/internal/log"
	"creatorflow/internal/model"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	Session *calendar.Session
	// AI may be nil; the generator endpoints then answer 503.
	AI *ai.Service
	// PreviewPath is the PNG served at /preview.png.
	PreviewPath string
	// CalendarName labels the ICS export.
	CalendarName string
	Now          func() time.Time
}

// Server exposes the calendar session, the generators and the analytics
// over HTTP. All session access is serialized by mu.
type Server struct {
	mu      sync.Mutex
	session *calendar.Session

	ai           *ai.Service
	previewPath  string
	calendarName string
	now          func() time.Time

	mux *http.ServeMux
}

// NewServer constructs a new Server.
func NewServer(opts Options) *Server {
	s := &Server{
		session:      opts.Session,
		ai:           opts.AI,
		previewPath:  opts.PreviewPath,
		calendarName: opts.CalendarName,
		now:          opts.Now,
		mux:          http.NewServeMux(),
	}
	if s.session == nil {
		s.session = calendar.NewSession(calendar.Options{})
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.calendarName == "" {
		s.calendarName = "CreatorFlow"
	}
	s.registerRoutes()
	return s
}

// Handler returns the root handler with request logging.
func (s *Server) Handler() http.Handler {
	return logRequests(s.mux)
}

// ImportEvents adds feed events to the session under the server lock.
func (s *Server) ImportEvents(evs []model.CalendarEvent) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.ImportEvents(evs)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/calendar", s.handleCalendar)
	s.mux.HandleFunc("POST /api/calendar/next", s.handleNavigate(func(cs *calendar.Session) { cs.Next() }))
	s.mux.HandleFunc("POST /api/calendar/previous", s.handleNavigate(func(cs *calendar.Session) { cs.Previous() }))
	s.mux.HandleFunc("POST /api/calendar/today", s.handleNavigate(func(cs *calendar.Session) { cs.GoToday() }))
	s.mux.HandleFunc("GET /api/calendar.ics", s.handleExport)

	s.mux.HandleFunc("GET /api/filters", s.handleGetFilters)
	s.mux.HandleFunc("PUT /api/filters", s.handlePutFilters)

	s.mux.HandleFunc("GET /api/events", s.handleListEvents)
	s.mux.HandleFunc("POST /api/events", s.handleCreateEvent)
	s.mux.HandleFunc("POST /api/editor/open", s.handleOpenEditor)
	s.mux.HandleFunc("POST /api/editor/close", s.handleCloseEditor)

	s.mux.HandleFunc("POST /api/drag/start", s.handleDragStart)
	s.mux.HandleFunc("POST /api/drag/drop", s.handleDragDrop)
	s.mux.HandleFunc("POST /api/drag/cancel", s.handleDragCancel)

	s.mux.HandleFunc("POST /api/ideas", s.handleIdeas)
	s.mux.HandleFunc("POST /api/captions", s.handleCaption)
	s.mux.HandleFunc("POST /api/hashtags", s.handleHashtags)
	s.mux.HandleFunc("POST /api/repurpose", s.handleRepurpose)
	s.mux.HandleFunc("POST /api/brand-voice", s.handleBrandVoice)
	s.mux.HandleFunc("GET /api/analytics", s.handleAnalytics)
	s.mux.HandleFunc("GET /api/analytics/insights", s.handleInsights)

	s.mux.HandleFunc("GET /calendar", s.handlePage)
	s.mux.HandleFunc("GET /preview.png", s.handlePreview)
	s.mux.Handle("GET /static/", staticHandler())
	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/calendar", http.StatusFound)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handlePreview serves the last captured snapshot.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if s.previewPath == "" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, s.previewPath)
}

// statusRecorder captures the status code for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		appLog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"took", time.Since(start),
		)
	})
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
