package health

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Status represents the aggregated readiness status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates at least one failing component.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing check.
	CheckError CheckResult = "error"
)

// Component names used as Report.Checks keys.
const (
	ComponentStore     = "store"
	ComponentIndex     = "index"
	ComponentEmbedding = "embedding"
	ComponentModel     = "model"
)

// DefaultTimeout bounds each individual check.
const DefaultTimeout = 2 * time.Second

var errIndexMissing = errors.New("index missing")

// Report aggregates check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Healthy reports whether every check passed.
func (r Report) Healthy() bool { return r.Status == Healthy }

// Service runs readiness checks.
type Service struct {
	store     StorePinger
	index     IndexChecker
	embedding EmbeddingChecker
	model     ModelChecker
	timeout   time.Duration
}

// New creates a Service. index and embedding can be nil.
func New(store StorePinger, index IndexChecker, embedding EmbeddingChecker) *Service {
	return &Service{store: store, index: index, embedding: embedding, timeout: DefaultTimeout}
}

// WithTimeout overrides the per-check timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// WithModel adds a check that the embedding model is loaded. A model that
// has not been warmed yet is warmed by the check.
func (s *Service) WithModel(m ModelChecker) *Service {
	s.model = m
	return s
}

// Check runs all configured checks concurrently.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]func(context.Context) error{
		ComponentStore: s.store.Ping,
	}
	if s.index != nil {
		checks[ComponentIndex] = func(ctx context.Context) error {
			ok, err := s.index.Exists(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return errIndexMissing
			}
			return nil
		}
	}
	if s.embedding != nil {
		checks[ComponentEmbedding] = s.embedding.HealthCheck
	}
	if s.model != nil {
		checks[ComponentModel] = func(ctx context.Context) error {
			if s.model.Ready() {
				return nil
			}
			return s.model.Warm(ctx)
		}
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	out := make(map[string]CheckResult, len(checks))
	for name, fn := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := s.run(ctx, fn)
			mu.Lock()
			out[name] = res
			mu.Unlock()
		}()
	}
	wg.Wait()

	status := Healthy
	for _, v := range out {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	return Report{Status: status, Checks: out}
}

func (s *Service) run(ctx context.Context, fn func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
