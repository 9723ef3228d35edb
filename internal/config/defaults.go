package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultUpstreamURL     = "http://api.open-notify.org/iss-now.json"
	DefaultUpstreamSource  = "open-notify"
	DefaultUpstreamTimeout = Duration(15 * time.Second)
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultStoreBackend    = "postgres"
	DefaultStoreTable      = "iss_position"
	DefaultCycleTimeout    = Duration(30 * time.Second)
	DefaultHealthPort      = 8080
	DefaultProviderAddr    = ":50051"
	DefaultInitialRadius   = Duration(1 * time.Minute)
	DefaultMaxRadius       = Duration(1 * time.Hour)
	DefaultWebListenAddr   = ":8081"
	DefaultWebProviderAddr = "localhost:50051"
	DefaultRPCTimeout      = Duration(10 * time.Second)
	DefaultFeedInterval    = Duration(1 * time.Minute)
)

func (c *Config) applyDefaults() {
	// Upstream defaults
	if c.Upstream.URL == "" {
		c.Upstream.URL = DefaultUpstreamURL
	}
	if c.Upstream.Source == "" {
		c.Upstream.Source = DefaultUpstreamSource
	}
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = DefaultUpstreamTimeout
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Store defaults
	if c.Store.Backend == "" {
		c.Store.Backend = DefaultStoreBackend
	}
	if c.Store.Table == "" {
		c.Store.Table = DefaultStoreTable
	}

	// Crawler defaults
	if c.Crawler.CycleTimeout == 0 {
		c.Crawler.CycleTimeout = DefaultCycleTimeout
	}
	if c.Crawler.HealthPort == 0 {
		c.Crawler.HealthPort = DefaultHealthPort
	}

	// Provider defaults
	if c.Provider.ListenAddr == "" {
		c.Provider.ListenAddr = DefaultProviderAddr
	}
	if c.Provider.Search.InitialRadius == 0 {
		c.Provider.Search.InitialRadius = DefaultInitialRadius
	}
	if c.Provider.Search.MaxRadius == 0 {
		c.Provider.Search.MaxRadius = DefaultMaxRadius
	}

	// Webserver defaults
	if c.Webserver.ListenAddr == "" {
		c.Webserver.ListenAddr = DefaultWebListenAddr
	}
	if c.Webserver.ProviderAddr == "" {
		c.Webserver.ProviderAddr = DefaultWebProviderAddr
	}
	if c.Webserver.RPCTimeout == 0 {
		c.Webserver.RPCTimeout = DefaultRPCTimeout
	}
	if c.Webserver.FeedInterval == 0 {
		c.Webserver.FeedInterval = DefaultFeedInterval
	}
}
