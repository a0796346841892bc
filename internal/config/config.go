package config

import "time"

// ExchangeConfig is the root configuration for an exchange daemon instance.
type ExchangeConfig struct {
	Server   ServerConfig  `yaml:"server"`
	Follow   FollowConfig  `yaml:"follow"`
	Orders   OrdersConfig  `yaml:"orders"`
	Database DBConfig      `yaml:"database"`
	Journal  JournalConfig `yaml:"journal"`
}

// ServerConfig holds the HTTP/WebSocket listener settings.
type ServerConfig struct {
	Listen          string        `yaml:"listen"`
	ReadLimit       int64         `yaml:"read_limit"`    // max inbound frame bytes
	WriteTimeout    time.Duration `yaml:"write_timeout"` // bound on a single outbound frame
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// FollowConfig holds price-follow session settings.
type FollowConfig struct {
	// SessionLimit caps the lifetime of one follow session.
	SessionLimit time.Duration `yaml:"session_limit"`

	// DefaultInterval is used when a client requests a degenerate poll
	// interval.
	DefaultInterval time.Duration `yaml:"default_interval"`
}

// OrdersConfig holds order processor settings.
type OrdersConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	MaxImpactBps int           `yaml:"max_impact_bps"`
}

// DBConfig holds the optional Postgres connection for the execution journal.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Enabled reports whether a journal database is configured.
func (db DBConfig) Enabled() bool {
	return db.Host != ""
}

// JournalConfig holds execution journal batching settings.
type JournalConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}
