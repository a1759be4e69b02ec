// Package web hosts the schedule behind a small HTTP surface: a JSON API
// mirroring the add and delete operations plus live SVG and PDF previews.
package web

import (
	"context"
	"crypto/subtle"
	_ "embed"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"schedgen/internal/config"
	"schedgen/internal/contrast"
	appLog "schedgen/internal/log"
	"schedgen/internal/model"
	"schedgen/internal/render"
	"schedgen/internal/schedule"
)

// Server owns the live schedule and serves the preview UI and API. All
// schedule access is serialized through mu; the schedule itself is
// single-owner.
type Server struct {
	cfg    *config.Config
	router chi.Router

	mu       sync.Mutex
	sched    *schedule.Schedule
	palette  schedule.Palette
	schedCfg model.ScheduleConfig
	style    render.Style
}

//go:embed index.html
var indexHTML []byte

// NewServer builds a server around an existing schedule. The day selection
// is resolved up front so a bad config fails here, not on the first render.
func NewServer(cfg *config.Config, sched *schedule.Schedule) (*Server, error) {
	schedCfg, err := cfg.ScheduleConfig()
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:      cfg,
		sched:    sched,
		palette:  cfg.Palette(),
		schedCfg: schedCfg,
		style:    render.Style{Title: cfg.Title, Footer: cfg.Footer},
	}
	s.routes()
	return s, nil
}

// Handler returns the full http.Handler, with basic auth wrapped around
// every route except /health when credentials are configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.router)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Listen, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty credentials count as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic
// Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="schedgen", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Get("/api/events", s.handleListEvents)
	r.Post("/api/events", s.handleAddEvent)
	r.Delete("/api/events/{index}", s.handleDeleteEvent)
	r.Get("/schedule.svg", s.handleSVG)
	r.Get("/schedule.pdf", s.handlePDF)
	r.Get("/", s.handleIndex)
	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexHTML)
}

// eventDTO is the JSON view of one stored event.
type eventDTO struct {
	Index     int    `json:"index"`
	Title     string `json:"title"`
	Day       string `json:"day"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Location  string `json:"location,omitempty"`
	Color     string `json:"color"`
	TextColor string `json:"text_color"`
}

// eventsResponse is the JSON response shape for GET /api/events.
type eventsResponse struct {
	Events  []eventDTO `json:"events"`
	Days    []string   `json:"days"`
	EndHour int        `json:"end_hour"`
	Presets []string   `json:"presets"`
}

func toDTO(index int, ev model.Event) eventDTO {
	tc, err := contrast.TextColorFor(ev.ColorHex)
	if err != nil {
		tc = contrast.White
	}
	return eventDTO{
		Index:     index,
		Title:     ev.Title,
		Day:       ev.Day.String(),
		Start:     ev.StartText,
		End:       ev.EndText,
		Location:  ev.Location,
		Color:     ev.ColorHex,
		TextColor: tc.String(),
	}
}

func (s *Server) handleListEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	events := s.sched.Events()
	s.mu.Unlock()

	dtos := make([]eventDTO, 0, len(events))
	for i, ev := range events {
		dtos = append(dtos, toDTO(i, ev))
	}

	days := make([]string, 0, len(s.schedCfg.Days))
	for _, d := range s.schedCfg.Days {
		days = append(days, d.String())
	}

	writeJSON(w, http.StatusOK, eventsResponse{
		Events:  dtos,
		Days:    days,
		EndHour: s.schedCfg.EndHour,
		Presets: s.palette.Names(),
	})
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var in schedule.EventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	ev, err := s.sched.AddEvent(in, s.palette)
	index := s.sched.Len() - 1
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	appLog.Info("event added", "title", ev.Title, "day", ev.Day.String(), "time", ev.TimeRange())
	writeJSON(w, http.StatusCreated, toDTO(index, ev))
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event index")
		return
	}

	s.mu.Lock()
	err = s.sched.DeleteEvent(index)
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, schedule.ErrIndexOutOfRange) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	appLog.Info("event deleted", "index", index)
	w.WriteHeader(http.StatusNoContent)
}

// handleSVG serves the live preview. An empty schedule still renders the
// bare grid so the page is useful before the first event.
func (s *Server) handleSVG(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	events := s.sched.Events()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := render.Preview(w, events, s.schedCfg, s.style); err != nil {
		appLog.Error("preview render failed", err)
		writeError(w, http.StatusInternalServerError, "failed to render preview")
	}
}

func (s *Server) handlePDF(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	events := s.sched.Events()
	s.mu.Unlock()

	data, err := render.Document(events, s.schedCfg, s.style)
	if err != nil {
		if errors.Is(err, render.ErrNoEventsToExport) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		appLog.Error("pdf render failed", err)
		writeError(w, http.StatusInternalServerError, "failed to render pdf")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="schedule.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
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
