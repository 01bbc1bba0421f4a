package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// RemoteChecker checks the remote search backend.
type RemoteChecker interface {
	HealthCheck(ctx context.Context) error
}
