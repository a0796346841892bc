package database

import (
	"fmt"
	"net/url"

	"github.com/avoronin/exchange-sim/internal/config"
)

// ConnString renders cfg as a postgres:// URL for pgxpool. The password is
// query-escaped so it may carry any byte; ssl_mode falls back to the
// configuration default when unset.
func ConnString(cfg config.DBConfig) string {
	mode := cfg.SSLMode
	if mode == "" {
		mode = config.DefaultDBSSLMode
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, url.QueryEscape(cfg.Password), cfg.Host, cfg.Port, cfg.Name, mode)
}
