package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/handlers"

	"MediaMonitor/internal/domain"
	"MediaMonitor/internal/ports"
	"MediaMonitor/internal/usecase"
)

// Server exposes read aggregates over the mention store for the dashboard
// front end, plus the single write-back it needs: tonality corrections.
type Server struct {
	store     ports.MentionStore
	cache     *usecase.MentionCache
	logger    *slog.Logger
	loc       *time.Location
	retention int // years, 0 disables the window
}

// New builds the dashboard API over a store and its cache.
func New(store ports.MentionStore, cache *usecase.MentionCache, retentionYears int, loc *time.Location, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Server{
		store:     store,
		cache:     cache,
		logger:    logger,
		loc:       loc,
		retention: retentionYears,
	}
}

// Handler returns the routed handler with logging and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/mentions", s.handleMentions)
	mux.HandleFunc("GET /api/timeline", s.handleTimeline)
	mux.HandleFunc("GET /api/sources", s.handleSources)
	mux.HandleFunc("PUT /api/mentions/{row}/tonality", s.handleUpdateTonality)

	cors := handlers.CORS(
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPut}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	return handlers.LoggingHandler(os.Stdout, cors(mux))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	mentions, ok := s.loadFiltered(w, r)
	if !ok {
		return
	}
	writeJSON(w, usecase.Summarize(mentions))
}

func (s *Server) handleMentions(w http.ResponseWriter, r *http.Request) {
	mentions, ok := s.loadFiltered(w, r)
	if !ok {
		return
	}

	type mentionRow struct {
		Row       int             `json:"row"`
		Title     string          `json:"title"`
		Published string          `json:"published"`
		Source    string          `json:"source"`
		Summary   string          `json:"summary"`
		Link      string          `json:"link"`
		Tonality  domain.Tonality `json:"tonality"`
	}

	all, err := s.cache.Get(r.Context())
	if err != nil {
		s.serverError(w, "load mentions", err)
		return
	}
	rowOf := map[domain.Mention]int{}
	for i, m := range all {
		if _, seen := rowOf[m]; !seen {
			rowOf[m] = i
		}
	}

	out := make([]mentionRow, 0, len(mentions))
	for _, m := range mentions {
		out = append(out, mentionRow{
			Row:       rowOf[m],
			Title:     m.Title,
			Published: m.Published,
			Source:    m.Source,
			Summary:   m.Summary,
			Link:      m.Link,
			Tonality:  m.Tonality,
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	mentions, ok := s.loadFiltered(w, r)
	if !ok {
		return
	}
	writeJSON(w, usecase.Timeline(mentions))
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	mentions, ok := s.loadFiltered(w, r)
	if !ok {
		return
	}

	n := 7
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		n = parsed
	}
	writeJSON(w, usecase.TopSources(mentions, n))
}

func (s *Server) handleUpdateTonality(w http.ResponseWriter, r *http.Request) {
	row, err := strconv.Atoi(r.PathValue("row"))
	if err != nil || row < 0 {
		http.Error(w, "invalid row", http.StatusBadRequest)
		return
	}

	var body struct {
		Tonality domain.Tonality `json:"tonality"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if !body.Tonality.Valid() {
		http.Error(w, "invalid tonality", http.StatusBadRequest)
		return
	}

	if err := s.store.UpdateTonality(r.Context(), row, body.Tonality); err != nil {
		s.serverError(w, "update tonality", err)
		return
	}
	s.cache.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// loadFiltered reads the cached snapshot, applies the retention window,
// then the request's filter parameters. The bool result reports whether
// the response is still open.
func (s *Server) loadFiltered(w http.ResponseWriter, r *http.Request) ([]domain.Mention, bool) {
	mentions, err := s.cache.Get(r.Context())
	if err != nil {
		s.serverError(w, "load mentions", err)
		return nil, false
	}
	mentions = usecase.ApplyRetention(mentions, s.retention, time.Now().In(s.loc), s.loc)

	filter, err := s.filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return usecase.FilterMentions(mentions, filter, s.loc), true
}

func (s *Server) filterFromQuery(r *http.Request) (usecase.Filter, error) {
	var f usecase.Filter
	q := r.URL.Query()

	if v := q.Get("from"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, s.loc)
		if err != nil {
			return f, errors.New("invalid from date")
		}
		f.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, s.loc)
		if err != nil {
			return f, errors.New("invalid to date")
		}
		f.To = t
	}
	for _, v := range q["tonality"] {
		tone := domain.Tonality(v)
		if !tone.Valid() {
			return f, errors.New("invalid tonality")
		}
		f.Tonalities = append(f.Tonalities, tone)
	}
	f.Sources = q["source"]

	return f, nil
}

func (s *Server) serverError(w http.ResponseWriter, stage string, err error) {
	s.logger.Error(stage+" failed", "error", err)
	http.Error(w, stage+" failed", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
