package health

import "context"

// RegionCounter reports how many regions the catalog serves.
type RegionCounter interface {
	Len() int
}

// UpstreamChecker checks listing service availability.
type UpstreamChecker interface {
	HealthCheck(ctx context.Context) error
}
