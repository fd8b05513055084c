package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	appreview "github.com/bryanwahyu/coderefine/internal/application/review"
	domain "github.com/bryanwahyu/coderefine/internal/domain/review"
	"github.com/bryanwahyu/coderefine/internal/middleware"
)

// ReviewService is what the router needs from the application layer.
type ReviewService interface {
	Analyze(ctx context.Context, code string) domain.AnalysisResult
	Status(ctx context.Context) appreview.Status
	Counts() appreview.Counts
}

type Options struct {
	Log          logrus.FieldLogger
	Metrics      *middleware.Metrics
	RateLimiter  *middleware.RateLimiter // nil disables rate limiting
	CORSOrigins  []string
	MaxBodyBytes int64
	Checkers     map[string]middleware.HealthChecker
}

type Router struct {
	svc          ReviewService
	log          logrus.FieldLogger
	maxBodyBytes int64
}

func NewRouter(svc ReviewService, opts Options) http.Handler {
	r := &Router{svc: svc, log: opts.Log, maxBodyBytes: opts.MaxBodyBytes}
	if opts.Metrics == nil {
		opts.Metrics = middleware.NewMetrics()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Logging(opts.Log))
	mux.Use(opts.Metrics.Middleware)
	mux.Use(chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: !allowsAny(origins),
		MaxAge:           300,
	}))

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/health/ready", middleware.HealthHandler(opts.Checkers))
	mux.Get("/metrics", opts.Metrics.Handler(func() map[string]any {
		return map[string]any{"analyses": svc.Counts()}
	}))

	mux.Route("/api", func(rt chi.Router) {
		if opts.RateLimiter != nil {
			rt.Use(middleware.RateLimit(opts.RateLimiter))
		}
		rt.Get("/status", r.wrap(r.handleStatus))
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
	})

	return mux
}

// allowsAny reports a wildcard origin; browsers reject credentials with "*".
func allowsAny(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &httpError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := http.StatusInternalServerError
			var he *httpError
			if errors.As(err, &he) {
				status = he.status
			}
			if status >= http.StatusInternalServerError {
				r.log.WithError(err).WithField("request_id", middleware.GetRequestID(req.Context())).Error("handler failed")
			}
			writeJSON(w, status, map[string]string{"detail": err.Error()})
		}
	}
}

// GET /api/status
func (r *Router) handleStatus(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, r.svc.Status(req.Context()))
}

// POST /api/analyze
// Body: {"code": "<source>"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	if r.maxBodyBytes > 0 {
		req.Body = http.MaxBytesReader(w, req.Body, r.maxBodyBytes)
	}

	var body struct {
		Code *string `json:"code"`
	}
	dec := json.NewDecoder(req.Body)
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &httpError{status: http.StatusRequestEntityTooLarge, msg: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)}
		}
		if errors.Is(err, io.EOF) {
			return badRequest("request body is empty")
		}
		return badRequest("invalid JSON body: %v", err)
	}
	if body.Code == nil {
		return badRequest("field 'code' is required")
	}

	return writeJSON(w, http.StatusOK, r.svc.Analyze(req.Context(), *body.Code))
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
