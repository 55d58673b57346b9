package health

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/litsearch/internal/domain"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded means the backend answers but search cannot fully work
	// (missing index, embedding provider down).
	Degraded Status = "degraded"
	// Unhealthy means the backend is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckMissing indicates the index is not declared.
	CheckMissing CheckResult = "missing"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	Index  domain.IndexStats
	Err    error // first backend failure when Status is Unhealthy
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	index     IndexInspector
	embedding EmbeddingChecker
}

// New creates a Service. embedding can be nil.
func New(db DBPinger, index IndexInspector, embedding EmbeddingChecker) *Service {
	return &Service{db: db, index: index, embedding: embedding}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	report := Report{Status: Healthy, Checks: checks}

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		report.Status = Unhealthy
		report.Err = fmt.Errorf("ping: %w", err)
		return report
	}
	checks["database"] = CheckOK

	stats, err := s.index.Stats(ctx)
	switch {
	case err != nil:
		checks["index"] = CheckError
		report.Status = Unhealthy
		report.Err = fmt.Errorf("index stats: %w", err)
		return report
	case !stats.Exists:
		checks["index"] = CheckMissing
		report.Status = Degraded
	default:
		checks["index"] = CheckOK
	}
	report.Index = stats

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
			report.Status = Degraded
		} else {
			checks["embedding"] = CheckOK
		}
	}

	return report
}
