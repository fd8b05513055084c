package review

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/coderefine/internal/application"
	domain "github.com/bryanwahyu/coderefine/internal/domain/review"
	"github.com/bryanwahyu/coderefine/internal/infra/ai/prompt"
)

const (
	msgConnected = "Gemini connected"
	msgDemo      = "Using Demo Mode (No AI detected)"
)

// Status is the body of the status probe.
type Status struct {
	Status  string      `json:"status"`
	Mode    domain.Mode `json:"mode"`
	Message string      `json:"message"`
}

// Counts reports how many analyses each mode has served.
type Counts struct {
	Gemini uint64 `json:"gemini"`
	Demo   uint64 `json:"demo"`
}

// Service tries the remote model first and degrades to the local analyzer.
// It is safe for concurrent use.
type Service struct {
	client   domain.Client
	fallback domain.Analyzer
	clock    application.Clock
	log      logrus.FieldLogger

	statusTTL time.Duration
	mu        sync.Mutex
	lastMode  domain.Mode
	probedAt  time.Time

	geminiCount atomic.Uint64
	demoCount   atomic.Uint64
}

type Option func(*Service)

// WithStatusTTL caches the status probe outcome for ttl.
func WithStatusTTL(ttl time.Duration) Option {
	return func(s *Service) { s.statusTTL = ttl }
}

func WithClock(c application.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func NewService(client domain.Client, fallback domain.Analyzer, log logrus.FieldLogger, opts ...Option) *Service {
	s := &Service{
		client:   client,
		fallback: fallback,
		clock:    application.SystemClock{},
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze never fails: any client error is logged and answered by the fallback.
func (s *Service) Analyze(ctx context.Context, code string) domain.AnalysisResult {
	start := s.clock.Now()
	log := s.log.WithField("code_length", len(code))

	res, err := s.client.Query(ctx, prompt.Build(code))
	if err == nil && res != nil {
		res.Mode = domain.ModeGemini
		res.Normalize()
		s.geminiCount.Add(1)
		log.WithFields(logrus.Fields{
			"mode":        res.Mode,
			"score":       res.Score,
			"duration_ms": s.clock.Now().Sub(start).Milliseconds(),
		}).Info("analysis served")
		return *res
	}

	log.WithError(err).Warn("gemini unavailable, using demo mode")
	out := s.fallback.Analyze(code)
	out.Mode = domain.ModeDemo
	s.demoCount.Add(1)
	log.WithFields(logrus.Fields{
		"mode":        out.Mode,
		"score":       out.Score,
		"duration_ms": s.clock.Now().Sub(start).Milliseconds(),
	}).Info("analysis served")
	return out
}

// Status reports which mode Analyze would use right now.
func (s *Service) Status(ctx context.Context) Status {
	mode := s.probe(ctx)
	msg := msgDemo
	if mode == domain.ModeGemini {
		msg = msgConnected
	}
	return Status{Status: "ok", Mode: mode, Message: msg}
}

func (s *Service) probe(ctx context.Context) domain.Mode {
	if s.statusTTL > 0 {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.probedAt.IsZero() && s.clock.Now().Sub(s.probedAt) < s.statusTTL {
			return s.lastMode
		}
	}

	mode := domain.ModeDemo
	if res, err := s.client.Query(ctx, prompt.StatusProbe); err == nil && res != nil {
		mode = domain.ModeGemini
	} else {
		s.log.WithError(err).Debug("status probe failed")
	}

	if s.statusTTL > 0 {
		s.lastMode = mode
		s.probedAt = s.clock.Now()
	}
	return mode
}

func (s *Service) Counts() Counts {
	return Counts{Gemini: s.geminiCount.Load(), Demo: s.demoCount.Load()}
}
