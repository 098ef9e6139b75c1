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
	regions  RegionCounter
	upstream UpstreamChecker
}

// New creates a Service. upstream can be nil, in which case the listing
// service is not checked.
func New(regions RegionCounter, upstream UpstreamChecker) *Service {
	return &Service{regions: regions, upstream: upstream}
}

// Check runs health checks against all components.
// An empty region catalog makes the service unusable.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	regionsOK := s.regions != nil && s.regions.Len() > 0
	if regionsOK {
		checks["regions"] = CheckOK
	} else {
		checks["regions"] = CheckError
	}

	if s.upstream != nil {
		if err := s.upstream.HealthCheck(ctx); err != nil {
			checks["upstream"] = CheckError
		} else {
			checks["upstream"] = CheckOK
		}
	}

	status := Healthy
	switch {
	case !regionsOK:
		status = Unhealthy
	case checks["upstream"] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
