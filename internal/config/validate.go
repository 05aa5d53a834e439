package config

import (
	"errors"
	"fmt"
	"strings"
)

var knownMechanisms = map[string]struct{}{
	"steam":      {},
	"epic":       {},
	"riot":       {},
	"battlenet":  {},
	"standalone": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateMetadata(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSources() error {
	if len(c.Sources.Priority) == 0 {
		return errors.New("sources.priority must list at least one mechanism")
	}
	seen := make(map[string]struct{}, len(c.Sources.Priority))
	for _, name := range c.Sources.Priority {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := knownMechanisms[key]; !ok {
			return fmt.Errorf("sources.priority: unknown mechanism %q", name)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("sources.priority: mechanism %q listed twice", name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (c *Config) validateMetadata() error {
	if c.Metadata.CacheTTLHours <= 0 {
		return errors.New("metadata.cache_ttl_hours must be positive")
	}
	if c.Metadata.SimilarityThreshold < 0 || c.Metadata.SimilarityThreshold > 1 {
		return errors.New("metadata.similarity_threshold must be between 0 and 1")
	}
	if c.Metadata.RequestTimeoutSeconds <= 0 {
		return errors.New("metadata.request_timeout_seconds must be positive")
	}
	if c.Metadata.LookupConcurrency <= 0 {
		return errors.New("metadata.lookup_concurrency must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
