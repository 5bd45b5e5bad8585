package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"creatorflow/internal/calendar"
	appLog "creatorflow/internal/log"
	"creatorflow/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageTemplate = template.Must(template.New("calendar.html").Funcs(template.FuncMap{
	"lower": func(v any) string {
		switch x := v.(type) {
		case model.Platform:
			return strings.ToLower(string(x))
		case model.Status:
			return strings.ToLower(string(x))
		case string:
			return strings.ToLower(x)
		}
		return ""
	},
}).ParseFS(templateFS, "templates/calendar.html"))

var weekdayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type pageData struct {
	Title     string
	Month     string
	Prev      string
	Next      string
	Weekdays  []string
	Weeks     [][]*calendar.Cell
	Platforms []string
	Statuses  []string
	Filter    filterDTO
	Count     int
	Today     string

	Editor        editorResponse
	FormPlatforms []model.Platform
	FormStatuses  []statusOption
}

// statusOption carries the commit label the form shows for each status.
type statusOption struct {
	Value       model.Status
	CommitLabel string
}

func statusOptions() []statusOption {
	out := make([]statusOption, 0, len(model.Statuses))
	for _, st := range model.Statuses {
		out = append(out, statusOption{Value: st, CommitLabel: calendar.CommitLabelFor(st)})
	}
	return out
}

func filterOptions[T ~string](values []T) []string {
	out := []string{calendar.All}
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}

// handlePage renders the month grid. Query parameters month, platform and
// status update the session before rendering. The root element carries
// data-ready="true" once the markup is complete, which the snapshot
// capture waits for.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var target *calendar.Month
	if v := q.Get("month"); v != "" {
		m, err := calendar.ParseMonth(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		target = &m
	}

	s.mu.Lock()
	if target != nil {
		s.session.GoTo(*target)
	}
	if v := q.Get("platform"); v != "" {
		if err := s.session.SetPlatformFilter(v); err != nil {
			appLog.Debug("page: ignoring platform filter", "value", v)
		}
	}
	if v := q.Get("status"); v != "" {
		if err := s.session.SetStatusFilter(v); err != nil {
			appLog.Debug("page: ignoring status filter", "value", v)
		}
	}
	g := s.session.Grid()
	data := pageData{
		Title:     g.Title,
		Month:     g.Month.String(),
		Prev:      g.Month.Previous().String(),
		Next:      g.Month.Next().String(),
		Weekdays:  weekdayLabels,
		Weeks:     g.Weeks(),
		Platforms: filterOptions(model.Platforms),
		Statuses:  filterOptions(model.Statuses),
		Filter:    s.filterState(),
		Count:     len(s.session.Visible()),
		Today:     calendar.MonthOf(s.session.Today()).String(),

		Editor:        s.editorState(),
		FormPlatforms: model.Platforms,
		FormStatuses:  statusOptions(),
	}
	s.mu.Unlock()

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		appLog.Error("render calendar page", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static assets not available", http.StatusServiceUnavailable)
		})
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
