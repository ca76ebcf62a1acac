package health

import "context"

// CachePinger checks signal cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// SignalChecker checks semantic signal provider availability.
type SignalChecker interface {
	HealthCheck(ctx context.Context) error
}
