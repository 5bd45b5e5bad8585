package web

import (
	"net/http"

	"creatorflow/internal/calendar"
	"creatorflow/internal/ics"
	"creatorflow/internal/model"
)

type filterDTO struct {
	Platform string `json:"platform"`
	Status   string `json:"status"`
}

type dragDTO struct {
	State string `json:"state"`
	ID    string `json:"id,omitempty"`
}

type calendarResponse struct {
	Month   string          `json:"month"`
	Title   string          `json:"title"`
	Today   model.Date      `json:"today"`
	Padding int             `json:"padding"`
	Days    []calendar.Cell `json:"days"`
	Filter  filterDTO       `json:"filter"`
	Drag    dragDTO         `json:"drag"`
}

// calendarState snapshots the session. Callers hold s.mu.
func (s *Server) calendarState() calendarResponse {
	g := s.session.Grid()
	return calendarResponse{
		Month:   g.Month.String(),
		Title:   g.Title,
		Today:   s.session.Today(),
		Padding: g.Padding,
		Days:    g.Days,
		Filter:  s.filterState(),
		Drag:    s.dragState(),
	}
}

func (s *Server) filterState() filterDTO {
	f := s.session.Filter()
	return filterDTO{Platform: f.PlatformLabel(), Status: f.StatusLabel()}
}

func (s *Server) dragState() dragDTO {
	d := s.session.Drag()
	id, _ := d.Dragged()
	return dragDTO{State: d.State().String(), ID: id}
}

// handleCalendar returns the grid of the displayed month. ?month=YYYY-MM
// switches the displayed month first.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	var target *calendar.Month
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := calendar.ParseMonth(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		target = &m
	}

	s.mu.Lock()
	if target != nil {
		s.session.GoTo(*target)
	}
	resp := s.calendarState()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNavigate(step func(*calendar.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		step(s.session)
		resp := s.calendarState()
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleGetFilters(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	resp := s.filterState()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

// handlePutFilters sets both selectors. Omitted fields keep their value;
// an unknown value rejects the whole request.
func (s *Server) handlePutFilters(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Platform *string `json:"platform"`
		Status   *string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Platform != nil {
		if _, err := calendar.ParsePlatformFilter(*req.Platform); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Status != nil {
		if _, err := calendar.ParseStatusFilter(*req.Status); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	s.mu.Lock()
	if req.Platform != nil {
		_ = s.session.SetPlatformFilter(*req.Platform)
	}
	if req.Status != nil {
		_ = s.session.SetStatusFilter(*req.Status)
	}
	resp := s.filterState()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// handleListEvents returns the events passing the active filters.
// ?all=1 returns every stored event.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	var evs []model.CalendarEvent
	if r.URL.Query().Get("all") == "1" {
		evs = s.session.Events()
	} else {
		evs = s.session.Visible()
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, evs)
}

// eventRequest mirrors the editor form with plain strings so that unknown
// enum values are reported as validation failures.
type eventRequest struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Platform string `json:"platform"`
	Status   string `json:"status"`
}

func (req eventRequest) draft() calendar.Draft {
	d := calendar.DefaultDraft()
	d.Title = req.Title
	d.Date = req.Date
	d.Time = req.Time
	if req.Platform != "" {
		d.Platform = model.Platform(req.Platform)
	}
	if req.Status != "" {
		d.Status = model.Status(req.Status)
	}
	return d
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d := req.draft()
	if _, err := d.Event(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	ev, ok := s.session.SaveEvent(d)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "event rejected")
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

type editorResponse struct {
	Open        bool           `json:"open"`
	Form        calendar.Draft `json:"form"`
	CommitLabel string         `json:"commitLabel"`
}

// handleOpenEditor opens the form prefilled with the clicked day, or today
// when no date is given.
func (s *Server) handleOpenEditor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var day model.Date
	if req.Date != "" {
		d, err := model.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		day = d
	}

	s.mu.Lock()
	s.session.OpenEditor(day)
	resp := s.editorState()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseEditor(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.session.CloseEditor()
	resp := s.editorState()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

// editorState must be called with s.mu held.
func (s *Server) editorState() editorResponse {
	ed := s.session.Editor()
	return editorResponse{Open: ed.IsOpen(), Form: ed.Form(), CommitLabel: ed.CommitLabel()}
}

func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	s.mu.Lock()
	s.session.StartDrag(req.ID)
	resp := s.dragState()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDragDrop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	day, err := model.ParseDate(req.Date)
	if err != nil {
		// A drop that misses every day cell ends the drag.
		s.mu.Lock()
		s.session.CancelDrag()
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	moved := s.session.Drop(day)
	resp := struct {
		Moved bool    `json:"moved"`
		Drag  dragDTO `json:"drag"`
	}{Moved: moved, Drag: s.dragState()}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDragCancel(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.session.CancelDrag()
	resp := s.dragState()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

// handleExport serves every stored event as an ICS calendar.
func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	evs := s.session.Events()
	loc := s.session.Location()
	s.mu.Unlock()

	body := ics.Export(evs, s.calendarName, loc, s.now())
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="creatorflow.ics"`)
	_, _ = w.Write([]byte(body))
}
