// Package bootstrap builds the infrastructure shared by the localdex binaries.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/localdex/internal/config"
	"github.com/kailas-cloud/localdex/internal/db"
	dbRedis "github.com/kailas-cloud/localdex/internal/db/redis"
	dbValkey "github.com/kailas-cloud/localdex/internal/db/valkey"
	"github.com/kailas-cloud/localdex/internal/domain/geo"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/domain/search/result"
	"github.com/kailas-cloud/localdex/internal/domain/search/suggestion"
	"github.com/kailas-cloud/localdex/internal/transport/elastic"
	"github.com/kailas-cloud/localdex/internal/transport/remote"
)

// Remote is everything the use cases need from the remote tier.
type Remote interface {
	Universal(ctx context.Context, term string, loc *geo.Point) ([]result.Result, error)
	Suggestions(ctx context.Context, term string) ([]suggestion.Suggestion, error)
	Related(ctx context.Context, id refid.ID, limit int) ([]result.Result, error)
	HealthCheck(ctx context.Context) error
}

var (
	_ Remote = (*remote.Client)(nil)
	_ Remote = (*elastic.Backend)(nil)
)

// OpenStore connects to the configured database driver.
func OpenStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverValkey:
		s, err := dbValkey.NewStore(dbValkey.Config{Addrs: cfg.Addrs, Password: cfg.Password})
		if err != nil {
			return nil, fmt.Errorf("valkey: %w", err)
		}
		return s, nil
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.Addrs, Password: cfg.Password})
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// NewRemote builds the configured remote backend. It returns a nil interface
// when the remote tier is disabled, never a typed nil.
func NewRemote(cfg config.RemoteConfig, logger *zap.Logger) (Remote, error) {
	switch cfg.Driver {
	case config.RemoteHTTP:
		c, err := remote.NewClient(remote.Config{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout(),
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("remote http: %w", err)
		}
		return c, nil
	case config.RemoteElasticsearch:
		b, err := elastic.New(elastic.Config{
			Addresses:   cfg.Addresses,
			APIKey:      cfg.APIKey,
			IndexPrefix: cfg.IndexPrefix,
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("remote elasticsearch: %w", err)
		}
		return b, nil
	case config.RemoteNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown remote driver %q", cfg.Driver)
	}
}
