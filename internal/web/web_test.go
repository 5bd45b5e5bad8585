package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creatorflow/internal/ai"
	"creatorflow/internal/calendar"
	"creatorflow/internal/model"
)

var testNow = time.Date(2024, time.May, 20, 12, 0, 0, 0, time.UTC)

type cannedModel struct{ text string }

func (m cannedModel) Generate(context.Context, ai.Request) (string, error) { return m.text, nil }

type testServer struct {
	*Server
	notified []string
}

func newTestServer(t *testing.T, svc *ai.Service) *testServer {
	t.Helper()
	ts := &testServer{}
	session := calendar.NewSession(calendar.Options{
		Seed:     calendar.DemoEvents(),
		Location: time.UTC,
		Start:    calendar.DemoMonth,
		Now:      func() time.Time { return testNow },
		Notifier: calendar.NotifierFunc(func(title, body string) { ts.notified = append(ts.notified, body) }),
	})
	ts.Server = NewServer(Options{Session: session, AI: svc, Now: func() time.Time { return testNow }})
	return ts
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	t.Parallel()
	rec := do(t, newTestServer(t, nil).Handler(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestCalendarGrid(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, nil).Handler()

	rec := do(t, h, http.MethodGet, "/api/calendar", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[calendarResponse](t, rec)

	assert.Equal(t, "2024-05", got.Month)
	assert.Equal(t, "May 2024", got.Title)
	assert.Equal(t, 3, got.Padding)
	require.Len(t, got.Days, 31)
	assert.True(t, got.Days[19].IsToday)
	require.Len(t, got.Days[14].Events, 1)
	assert.Equal(t, "Product Launch Teaser", got.Days[14].Events[0].Title)
	assert.Equal(t, filterDTO{Platform: "All", Status: "All"}, got.Filter)
	assert.Equal(t, "idle", got.Drag.State)
}

func TestCalendarNavigation(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, nil).Handler()

	got := decode[calendarResponse](t, do(t, h, http.MethodPost, "/api/calendar/next", ""))
	assert.Equal(t, "2024-06", got.Month)
	assert.Equal(t, 6, got.Padding)

	got = decode[calendarResponse](t, do(t, h, http.MethodGet, "/api/calendar?month=2024-12", ""))
	assert.Equal(t, "2024-12", got.Month)
	got = decode[calendarResponse](t, do(t, h, http.MethodPost, "/api/calendar/next", ""))
	assert.Equal(t, "2025-01", got.Month)
	got = decode[calendarResponse](t, do(t, h, http.MethodPost, "/api/calendar/previous", ""))
	assert.Equal(t, "2024-12", got.Month)

	got = decode[calendarResponse](t, do(t, h, http.MethodPost, "/api/calendar/today", ""))
	assert.Equal(t, "2024-05", got.Month)

	rec := do(t, h, http.MethodGet, "/api/calendar?month=nope", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilters(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, nil).Handler()

	rec := do(t, h, http.MethodPut, "/api/filters", `{"platform":"Instagram"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, filterDTO{Platform: "Instagram", Status: "All"}, decode[filterDTO](t, rec))

	evs := decode[[]model.CalendarEvent](t, do(t, h, http.MethodGet, "/api/events", ""))
	require.Len(t, evs, 2)
	assert.Equal(t, "1", evs[0].ID)
	assert.Equal(t, "5", evs[1].ID)

	rec = do(t, h, http.MethodPut, "/api/filters", `{"platform":"All","status":"Queued"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	got := decode[filterDTO](t, do(t, h, http.MethodGet, "/api/filters", ""))
	assert.Equal(t, "Instagram", got.Platform, "rejected request changes nothing")

	assert.Len(t, decode[[]model.CalendarEvent](t, do(t, h, http.MethodGet, "/api/events?all=1", "")), 5)
}

func TestCreateEvent(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)
	h := ts.Handler()

	rec := do(t, h, http.MethodPost, "/api/events", `{"title":"Carousel","date":"2024-05-28","time":"08:15","platform":"LinkedIn","status":"Scheduled"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ev := decode[model.CalendarEvent](t, rec)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "08:15", ev.TimeString())
	assert.Equal(t, []string{`"Carousel" is scheduled for 2024-05-28`}, ts.notified)

	rec = do(t, h, http.MethodPost, "/api/events", `{"title":"Idea","date":"2024-05-29"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	ev = decode[model.CalendarEvent](t, rec)
	assert.Equal(t, model.Instagram, ev.Platform, "form defaults apply")
	assert.Equal(t, model.Draft, ev.Status)
	assert.Len(t, ts.notified, 1, "drafts do not notify")
}

func TestCreateEventRejected(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, nil).Handler()

	for _, body := range []string{
		`{"date":"2024-05-28"}`,
		`{"title":"x"}`,
		`{"title":"x","date":"2023-02-29"}`,
		`{"title":"x","date":"2024-05-28","platform":"Facebook"}`,
		`{"title":"x","date":"2024-05-28","time":"25:00"}`,
	} {
		rec := do(t, h, http.MethodPost, "/api/events", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
		assert.Contains(t, rec.Body.String(), `"error"`)
	}
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/events", `{"title":`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/events", `{"colour":"red"}`).Code)

	assert.Len(t, decode[[]model.CalendarEvent](t, do(t, h, http.MethodGet, "/api/events?all=1", "")), 5)
}

func TestOpenEditor(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, nil).Handler()

	got := decode[editorResponse](t, do(t, h, http.MethodPost, "/api/editor/open", `{"date":"2024-05-09"}`))
	assert.True(t, got.Open)
	assert.Equal(t, "2024-05-09", got.Form.Date)
	assert.Equal(t, model.Instagram, got.Form.Platform)
	assert.Equal(t, "Save Draft", got.CommitLabel)

	got = decode[editorResponse](t, do(t, h, http.MethodPost, "/api/editor/open", ""))
	assert.Equal(t, "2024-05-20", got.Form.Date, "no date means today")

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/editor/open", `{"date":"05/09"}`).Code)
}

func TestDragFlow(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, nil).Handler()

	drag := decode[dragDTO](t, do(t, h, http.MethodPost, "/api/drag/start", `{"id":"1"}`))
	assert.Equal(t, dragDTO{State: "dragging", ID: "1"}, drag)

	rec := do(t, h, http.MethodPost, "/api/drag/drop", `{"date":"2024-05-21"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"moved":true,"drag":{"state":"idle"}}`, rec.Body.String())

	got := decode[calendarResponse](t, do(t, h, http.MethodGet, "/api/calendar", ""))
	assert.Empty(t, got.Days[14].Events)
	require.Len(t, got.Days[20].Events, 1)
	assert.Equal(t, "1", got.Days[20].Events[0].ID)

	rec = do(t, h, http.MethodPost, "/api/drag/drop", `{"date":"2024-05-22"}`)
	assert.JSONEq(t, `{"moved":false,"drag":{"state":"idle"}}`, rec.Body.String(), "drop while idle is a no-op")

	do(t, h, http.MethodPost, "/api/drag/start", `{"id":"2"}`)
	assert.Equal(t, dragDTO{State: "idle"}, decode[dragDTO](t, do(t, h, http.MethodPost, "/api/drag/cancel", "")))

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/drag/start", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/drag/drop", `{"date":""}`).Code)
}

func TestDropOffGridCancelsDrag(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, nil).Handler()

	do(t, h, http.MethodPost, "/api/drag/start", `{"id":"1"}`)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/drag/drop", `{"date":"2024-05-32"}`).Code)

	rec := do(t, h, http.MethodPost, "/api/drag/drop", `{"date":"2024-05-21"}`)
	assert.JSONEq(t, `{"moved":false,"drag":{"state":"idle"}}`, rec.Body.String())

	got := decode[calendarResponse](t, do(t, h, http.MethodGet, "/api/calendar", ""))
	require.Len(t, got.Days[14].Events, 1)
	assert.Equal(t, "1", got.Days[14].Events[0].ID)
}

func TestImportEvents(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)
	ev := model.CalendarEvent{ID: "feed:x@2024-05-03", Date: model.Date{Year: 2024, Month: time.May, Day: 3}, Title: "Webinar", Platform: model.YouTube, Status: model.Scheduled}

	assert.Equal(t, 1, ts.ImportEvents([]model.CalendarEvent{ev}))
	assert.Equal(t, 0, ts.ImportEvents([]model.CalendarEvent{ev}))

	got := decode[calendarResponse](t, do(t, ts.Handler(), http.MethodGet, "/api/calendar", ""))
	assert.Equal(t, "Webinar", got.Days[2].Events[0].Title)
}

func TestExport(t *testing.T) {
	t.Parallel()
	rec := do(t, newTestServer(t, nil).Handler(), http.MethodGet, "/api/calendar.ics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Equal(t, 5, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "SUMMARY:Weekly Vlog")
}

func TestPage(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, nil).Handler()

	rec := do(t, h, http.MethodGet, "/calendar?platform=YouTube", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-ready="true"`)
	assert.Contains(t, body, "<h1>May 2024</h1>")
	assert.Contains(t, body, "Weekly Vlog")
	assert.NotContains(t, body, "Product Launch Teaser", "filtered out")
	assert.Contains(t, body, `href="/calendar?month=2024-06"`)
	assert.Equal(t, 4, strings.Count(body, `class="pad"`), "three leading blanks and one trailing")
	assert.Equal(t, 31, strings.Count(body, `data-date=`))
	assert.Contains(t, body, `<a class="nav today-link" href="/calendar?month=2024-05">Today</a>`)
	assert.Contains(t, body, `<button type="button" id="add-event" class="primary">Add Event</button>`)
	assert.Equal(t, 31, strings.Count(body, `class="quick-add"`), "one quick-add per day cell")
	assert.Contains(t, body, `<dialog id="editor">`, "editor starts closed")
	assert.Contains(t, body, `<option value="Scheduled" data-commit="Schedule Post">Scheduled</option>`)
	assert.Contains(t, body, `id="editor-commit" class="primary" disabled>Save Draft</button>`)

	rec = do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/calendar", rec.Header().Get("Location"))

	rec = do(t, h, http.MethodGet, "/static/calendar.css", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPageRendersOpenEditor(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, nil).Handler()

	do(t, h, http.MethodPost, "/api/editor/open", `{"date":"2024-05-09"}`)
	rec := do(t, h, http.MethodGet, "/calendar", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<dialog id="editor" open>`)
	assert.Contains(t, body, `name="date" value="2024-05-09"`)
	assert.Contains(t, body, `<option selected>Instagram</option>`)

	got := decode[editorResponse](t, do(t, h, http.MethodPost, "/api/editor/close", ""))
	assert.False(t, got.Open)
	assert.Contains(t, do(t, h, http.MethodGet, "/calendar", "").Body.String(), `<dialog id="editor">`)
}

func TestPreview(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "preview.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0o600))

	s := NewServer(Options{PreviewPath: path})
	rec := do(t, s.Handler(), http.MethodGet, "/preview.png", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = do(t, NewServer(Options{}).Handler(), http.MethodGet, "/preview.png", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGeneratorsWithoutKey(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, nil).Handler()

	rec := do(t, h, http.MethodPost, "/api/captions", `{"topic":"latte art"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"API Key is missing. Please configure it in your settings."}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/captions", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/repurpose", `{"content":"x","targets":["Myspace"]}`).Code)
}

func TestGenerators(t *testing.T) {
	t.Parallel()
	svc := ai.NewService(cannedModel{text: `[{"title":"t","hook":"h","format":"Reel","difficulty":"Easy","description":"d"}]`}, 0)
	h := newTestServer(t, svc).Handler()

	rec := do(t, h, http.MethodPost, "/api/ideas", `{"niche":"coffee","platform":"TikTok","goal":"reach","tone":"fun"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	ideas := decode[[]ai.ContentIdea](t, rec)
	require.Len(t, ideas, 1)
	assert.Equal(t, ai.Easy, ideas[0].Difficulty)

	svc = ai.NewService(cannedModel{text: `{"Twitter":"thread"}`}, 0)
	h = newTestServer(t, svc).Handler()
	rec = do(t, h, http.MethodPost, "/api/repurpose", `{"content":"long post","targets":["Twitter"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"Twitter":"thread"}`, rec.Body.String())
}

func TestAnalytics(t *testing.T) {
	t.Parallel()
	rec := do(t, newTestServer(t, nil).Handler(), http.MethodGet, "/api/analytics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Series []json.RawMessage `json:"series"`
		Cards  []struct {
			Value string `json:"value"`
		} `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Series, 7)
	assert.Equal(t, "11,350", got.Cards[0].Value)
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()
	rec := do(t, newTestServer(t, nil).Handler(), http.MethodDelete, "/api/events", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
