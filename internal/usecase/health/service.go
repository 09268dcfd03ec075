package health

import (
	"context"
	"time"

	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/heptuple/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
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

// Component names in a Report.
const (
	ComponentDatabase = "database"
	ComponentTaxonomy = "taxonomy"
)

// Report aggregates health check results.
type Report struct {
	Status    Status
	Checks    map[string]CheckResult
	Version   string
	Timestamp time.Time
}

// Service coordinates health checks.
type Service struct {
	db       DBPinger
	taxonomy TaxonomyChecker
	version  string
	now      func() time.Time
}

// New creates a Service. taxonomy can be nil.
func New(db DBPinger, taxonomy TaxonomyChecker, version string) *Service {
	return &Service{db: db, taxonomy: taxonomy, version: version, now: time.Now}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	log := logpkg.FromContext(ctx)
	checks := make(map[string]CheckResult, 2)

	checks[ComponentDatabase] = CheckOK
	if err := s.db.Ping(ctx); err != nil {
		log.Warn("Database health check failed", zap.Error(err))
		checks[ComponentDatabase] = CheckError
	}

	if s.taxonomy != nil {
		checks[ComponentTaxonomy] = CheckOK
		if err := s.taxonomy.Validate(); err != nil {
			log.Error("Keyword taxonomy check failed", zap.Error(err))
			checks[ComponentTaxonomy] = CheckError
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{
		Status:    status,
		Checks:    checks,
		Version:   s.version,
		Timestamp: s.now().UTC(),
	}
}
