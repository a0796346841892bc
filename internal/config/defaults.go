package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultListen          = ":8080"
	DefaultReadLimit       = 64 * 1024
	DefaultWriteTimeout    = 5 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultSessionLimit    = 30 * time.Second
	DefaultFollowInterval  = 2 * time.Second
	DefaultTickInterval    = 500 * time.Millisecond
	DefaultMaxImpactBps    = 500
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultBatchSize       = 256
	DefaultFlushInterval   = 1 * time.Second
	DefaultBufferSize      = 4096
)

func (c *ExchangeConfig) applyDefaults() {
	// Server defaults
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}
	if c.Server.ReadLimit == 0 {
		c.Server.ReadLimit = DefaultReadLimit
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Follow defaults
	if c.Follow.SessionLimit == 0 {
		c.Follow.SessionLimit = DefaultSessionLimit
	}
	if c.Follow.DefaultInterval == 0 {
		c.Follow.DefaultInterval = DefaultFollowInterval
	}

	// Orders defaults
	if c.Orders.TickInterval == 0 {
		c.Orders.TickInterval = DefaultTickInterval
	}
	if c.Orders.MaxImpactBps == 0 {
		c.Orders.MaxImpactBps = DefaultMaxImpactBps
	}

	// Database defaults (only meaningful when a host is configured)
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

	// Journal defaults
	if c.Journal.BatchSize == 0 {
		c.Journal.BatchSize = DefaultBatchSize
	}
	if c.Journal.FlushInterval == 0 {
		c.Journal.FlushInterval = DefaultFlushInterval
	}
	if c.Journal.BufferSize == 0 {
		c.Journal.BufferSize = DefaultBufferSize
	}
}
