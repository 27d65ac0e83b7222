// Package mockapi is an in-process REST server that speaks the same
// envelope format as the real backend, used for development and tests.
package mockapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/mmcdole/reel/internal/adapter/source/api"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxPageSize = 100

// Server serves generated data over HTTP.
type Server struct {
	gen      *Generator
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	offline  atomic.Bool
	latency  atomic.Int64
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request metrics and exposes gatherer on /metrics.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server over gen.
func NewServer(gen *Generator, opts ...Option) *Server {
	s := &Server{
		gen:    gen,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetOffline makes every API call fail with code 500 until cleared.
func (s *Server) SetOffline(offline bool) {
	s.offline.Store(offline)
	s.logger.Info("mock api offline switch", "offline", offline)
}

// Offline reports whether the offline switch is set.
func (s *Server) Offline() bool {
	return s.offline.Load()
}

// SetLatency delays every API response by d.
func (s *Server) SetLatency(d time.Duration) {
	s.latency.Store(int64(d))
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}

	r.HandleFunc("/admin/offline", s.handleOffline).Methods("GET", "PUT", "DELETE")

	apiRoutes := r.NewRoute().Subrouter()
	apiRoutes.Use(s.observe, s.gate)
	apiRoutes.HandleFunc("/videos", s.handleListVideos).Methods("GET")
	apiRoutes.HandleFunc("/videos/{id}/like", s.handleLike).Methods("POST", "DELETE")
	apiRoutes.HandleFunc("/comments/{videoId}", s.handleListComments).Methods("GET")
	apiRoutes.HandleFunc("/comments", s.handlePostComment).Methods("POST")

	return r
}

func (s *Server) handleOffline(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		s.SetOffline(true)
	case http.MethodDelete:
		s.SetOffline(false)
	}
	writeData(w, map[string]bool{"offline": s.Offline()})
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category, err := domain.ParseCategory(q.Get("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, size, ok := pageParams(w, r)
	if !ok {
		return
	}

	videos, hasMore := s.gen.Videos(category, page, size)
	writeData(w, api.VideoListResponse{
		Videos:   videos,
		HasMore:  hasMore,
		NextPage: page + 1,
	})
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["videoId"]
	page, size, ok := pageParams(w, r)
	if !ok {
		return
	}

	comments, hasMore, err := s.gen.Comments(videoID, page, size)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, api.CommentListResponse{
		Comments: comments,
		HasMore:  hasMore,
		NextPage: page + 1,
	})
}

func (s *Server) handlePostComment(w http.ResponseWriter, r *http.Request) {
	var req api.CommentDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid comment body")
		return
	}
	if req.VideoID == "" {
		writeError(w, http.StatusBadRequest, "missing videoId")
		return
	}

	created, err := s.gen.AddComment(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.logger.Debug("comment posted", "video_id", created.VideoID, "comment_id", created.ID)
	writeData(w, created)
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["id"]
	if err := s.gen.SetLiked(videoID, r.Method == http.MethodPost); err != nil {
		writeDomainError(w, err)
		return
	}
	v, _ := s.gen.Video(videoID)
	writeData(w, v)
}

// gate applies the offline switch and artificial latency.
func (s *Server) gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if d := time.Duration(s.latency.Load()); d > 0 {
			select {
			case <-time.After(d):
			case <-r.Context().Done():
				return
			}
		}
		if s.offline.Load() {
			writeError(w, http.StatusInternalServerError, "server offline")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// observe records request count and duration by route template.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		elapsed := time.Since(start)
		s.metrics.ObserveRequest(r.Method, route, rec.status, elapsed)
		s.logger.Debug("api request", "method", r.Method, "route", route, "status", rec.status, "duration", elapsed)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func pageParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	q := r.URL.Query()
	page, err := intParam(q.Get("page"), 0)
	if err != nil || page < 0 {
		writeError(w, http.StatusBadRequest, "invalid page")
		return 0, 0, false
	}
	size, err := intParam(q.Get("size"), DefaultPageSize)
	if err != nil || size <= 0 || size > maxPageSize {
		writeError(w, http.StatusBadRequest, "invalid size")
		return 0, 0, false
	}
	return page, size, true
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeData(w http.ResponseWriter, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	writeEnvelope(w, http.StatusOK, api.Envelope{Code: api.SuccessCode, Message: "success", Data: payload})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, api.Envelope{Code: status, Message: message})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrVideoNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyComment):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeEnvelope(w http.ResponseWriter, status int, env api.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}
