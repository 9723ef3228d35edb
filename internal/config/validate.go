package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Upstream.URL == "" {
		return errors.New("upstream.url is required")
	}
	if c.Upstream.Source == "" {
		return errors.New("upstream.source is required")
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream.timeout must be positive")
	}

	switch c.Store.Backend {
	case "postgres":
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	case "memory":
		// No database required.
	default:
		return fmt.Errorf("store.backend must be \"postgres\" or \"memory\", got %q", c.Store.Backend)
	}
	if c.Store.Table == "" {
		return errors.New("store.table is required")
	}

	if c.Crawler.CycleTimeout <= 0 {
		return errors.New("crawler.cycle_timeout must be positive")
	}
	if c.Crawler.HealthPort < 1 || c.Crawler.HealthPort > 65535 {
		return fmt.Errorf("crawler.health_port must be between 1 and 65535, got %d", c.Crawler.HealthPort)
	}

	if c.Provider.Search.InitialRadius <= 0 {
		return errors.New("provider.search.initial_radius must be positive")
	}
	if c.Provider.Search.MaxRadius < c.Provider.Search.InitialRadius {
		return fmt.Errorf("provider.search.max_radius (%s) cannot be smaller than initial_radius (%s)",
			c.Provider.Search.MaxRadius, c.Provider.Search.InitialRadius)
	}

	if c.Webserver.RPCTimeout <= 0 {
		return errors.New("webserver.rpc_timeout must be positive")
	}
	if c.Webserver.FeedInterval <= 0 {
		return errors.New("webserver.feed_interval must be positive")
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
