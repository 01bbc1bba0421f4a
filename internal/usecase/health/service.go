package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
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
	db     DBPinger
	remote RemoteChecker
}

// New creates a Service. remote is nil when the remote tier is disabled.
func New(db DBPinger, remote RemoteChecker) *Service {
	return &Service{db: db, remote: remote}
}

// Check runs health checks against all components.
// A failing remote or store degrades the service; no working backend at all is unhealthy.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	dbOK := s.db.Ping(ctx) == nil
	checks["database"] = result(dbOK)

	remoteOK := true
	if s.remote != nil {
		remoteOK = s.remote.HealthCheck(ctx) == nil
		checks["remote"] = result(remoteOK)
	}

	status := Healthy
	switch {
	case !dbOK && (s.remote == nil || !remoteOK):
		status = Unhealthy
	case !dbOK || !remoteOK:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func result(ok bool) CheckResult {
	if ok {
		return CheckOK
	}
	return CheckError
}
