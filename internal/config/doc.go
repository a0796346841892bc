// Package config handles YAML configuration loading with environment
// variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable
// interpolation. The database section is optional: when no host is set the
// daemon runs without the execution journal.
package config
