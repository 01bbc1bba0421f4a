package localdex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/localdex/internal/config"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// clientConfig reuses the server configuration so the SDK gets the same
// defaults as the API.
type clientConfig struct {
	cfg config.Config

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Database.Driver = config.DriverValkey
		c.cfg.Database.Addrs = []string{addr}
		c.cfg.Database.Password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Database.Driver = config.DriverRedis
		c.cfg.Database.Addrs = []string{addr}
		c.cfg.Database.Password = password
	})
}

// WithRemoteHTTP uses an HTTP search backend as the remote tier.
func WithRemoteHTTP(baseURL, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Remote.Driver = config.RemoteHTTP
		c.cfg.Remote.BaseURL = baseURL
		c.cfg.Remote.APIKey = apiKey
	})
}

// WithElasticsearch uses Elasticsearch as the remote tier. Indices are named
// <indexPrefix><collection>.
func WithElasticsearch(addrs []string, apiKey, indexPrefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Remote.Driver = config.RemoteElasticsearch
		c.cfg.Remote.Addresses = addrs
		c.cfg.Remote.APIKey = apiKey
		c.cfg.Remote.IndexPrefix = indexPrefix
	})
}

// WithRemoteTimeout bounds every remote call. Default: 1.5s.
func WithRemoteTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Remote.TimeoutMs = int(d / time.Millisecond)
	})
}

// WithSearchLimits sets the default and maximum result counts. Defaults: 50 and 200.
func WithSearchLimits(defaultResults, maxResults int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.MaxResults = defaultResults
		c.cfg.Search.HardMaxResults = maxResults
	})
}

// WithRecent configures the per-session recent-search buffer.
// Capacity must be between 5 and 10. Defaults: 8 entries kept for 30 days.
func WithRecent(capacity int, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Recent.Capacity = capacity
		c.cfg.Recent.TTLHours = int(ttl / time.Hour)
	})
}

// WithSuggestCatalog replaces the built-in type-ahead catalog.
func WithSuggestCatalog(entries []string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Suggest.Catalog = entries
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// resolve applies opts over the defaults and validates the result.
func resolve(opts []Option) (*clientConfig, error) {
	c := &clientConfig{}
	// Validate insists on a listen port the SDK never opens.
	c.cfg.HTTP.Port = 1
	for _, o := range opts {
		o.apply(c)
	}
	c.cfg.ApplyDefaults()
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
