package health

import (
	"context"
	"time"
)

// DefaultProbeTimeout bounds each dependency check.
const DefaultProbeTimeout = 2 * time.Second

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the UI is up but searches will fail.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	matcher MatcherProber
	timeout time.Duration
}

// New creates a Service.
func New(matcher MatcherProber) *Service {
	return &Service{matcher: matcher, timeout: DefaultProbeTimeout}
}

// WithTimeout overrides the per-check timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check probes every dependency.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.matcher.Probe(probeCtx); err != nil {
		checks["matcher"] = CheckError
	} else {
		checks["matcher"] = CheckOK
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
