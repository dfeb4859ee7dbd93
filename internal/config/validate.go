package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *AggregatorConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.PublicDir == "" {
		return errors.New("server.public_dir is required")
	}

	if c.Providers.Yahoo.BaseURL == "" {
		return errors.New("providers.yahoo.base_url is required")
	}
	if c.Providers.CoinGecko.BaseURL == "" {
		return errors.New("providers.coingecko.base_url is required")
	}

	if len(c.Universe.Stocks) == 0 {
		return errors.New("universe.stocks must list at least one symbol")
	}
	if c.Universe.PageSize < 1 {
		return errors.New("universe.page_size must be >= 1")
	}
	if c.Universe.MaxPages < 1 {
		return errors.New("universe.max_pages must be >= 1")
	}

	if c.Aggregate.BatchSize < 1 {
		return errors.New("aggregate.batch_size must be >= 1")
	}

	if c.LiveQuote.TTL <= 0 {
		return errors.New("live_quote.ttl must be positive")
	}
	if c.LiveQuote.BreakerThreshold < 1 {
		return errors.New("live_quote.breaker_threshold must be >= 1")
	}
	if c.LiveQuote.BreakerCooldown <= 0 {
		return errors.New("live_quote.breaker_cooldown must be positive")
	}

	if c.Records.Enabled {
		if err := c.Records.Postgres.validate("records.postgres"); err != nil {
			return err
		}
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
