package web

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedgen/internal/config"
	"schedgen/internal/schedule"
)

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s, err := NewServer(cfg, &schedule.Schedule{})
	require.NoError(t, err)
	return s
}

func postEvent(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestIndexServesBuilderPage(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "schedule.svg")
	assert.Contains(t, rec.Body.String(), "dataset.ready")
}

func TestAddAndListEvents(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	rec := postEvent(t, h, `{"title":"Office Hours","day":"Monday","start":"9:00 AM","end":"10:30 AM","location":"Room 210","color":"ETSU Gold"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Index     int    `json:"index"`
		Title     string `json:"title"`
		Color     string `json:"color"`
		TextColor string `json:"text_color"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 0, created.Index)
	assert.Equal(t, "Office Hours", created.Title)
	assert.Equal(t, "#ffc423", created.Color)
	assert.Equal(t, "black", created.TextColor)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var listed struct {
		Events []struct {
			Title string `json:"title"`
			Day   string `json:"day"`
			Start string `json:"start"`
		} `json:"events"`
		Days    []string `json:"days"`
		EndHour int      `json:"end_hour"`
		Presets []string `json:"presets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Events, 1)
	assert.Equal(t, "Office Hours", listed.Events[0].Title)
	assert.Equal(t, "Monday", listed.Events[0].Day)
	assert.Equal(t, "9:00 AM", listed.Events[0].Start)
	assert.Equal(t, []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}, listed.Days)
	assert.Equal(t, 18, listed.EndHour)
	assert.Len(t, listed.Presets, 10)
}

func TestAddEventValidation(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"title":`, http.StatusBadRequest},
		{"missing title", `{"day":"Monday","start":"9 AM","end":"10 AM"}`, http.StatusUnprocessableEntity},
		{"whitespace title", `{"title":"   ","day":"Monday","start":"9:00 AM","end":"10:00 AM"}`, http.StatusUnprocessableEntity},
		{"bad day", `{"title":"x","day":"Sunday","start":"9 AM","end":"10 AM"}`, http.StatusUnprocessableEntity},
		{"bad time", `{"title":"x","day":"Monday","start":"25:00","end":"10 AM"}`, http.StatusUnprocessableEntity},
		{"inverted range", `{"title":"x","day":"Monday","start":"11 AM","end":"10 AM"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postEvent(t, h, tc.body)
			assert.Equal(t, tc.want, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

			var payload struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			assert.NotEmpty(t, payload.Error)
		})
	}
}

func TestDeleteEvent(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	rec := postEvent(t, h, `{"title":"x","day":"Monday","start":"9 AM","end":"10 AM"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/events/0", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/events/0", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/events/zero", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleSVG(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	// Empty schedule still previews the bare grid.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schedule.svg", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "image/svg+xml")
	assert.Contains(t, rec.Body.String(), "MONDAY")

	rec = postEvent(t, h, `{"title":"Office Hours","day":"Monday","start":"9 AM","end":"10 AM"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schedule.svg", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Office Hours")
}

func TestSchedulePDF(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	// No events yet: the export contract rejects an empty schedule.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schedule.pdf", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	postRec := postEvent(t, h, `{"title":"x","day":"Monday","start":"9 AM","end":"10 AM"}`)
	require.Equal(t, http.StatusCreated, postRec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schedule.pdf", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestBasicAuth(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "prof", Password: "knock"}
	h := newTestServer(t, cfg).Handler()

	// /health stays open.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.SetBasicAuth("prof", "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.SetBasicAuth("prof", "knock")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewServerRejectsBadDayConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Days = []string{"Monday", "Blursday"}

	_, err := NewServer(cfg, &schedule.Schedule{})
	assert.Error(t, err)
}
