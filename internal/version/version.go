// Package version carries the build identity stamped into the exchanged
// binary.
package version

// Populated through -ldflags at release build time; the zero values mark a
// plain `go build` development binary.
//
//	-X github.com/avoronin/exchange-sim/internal/version.Version=0.3.0
//	-X github.com/avoronin/exchange-sim/internal/version.Commit=$(git rev-parse --short HEAD)
//	-X github.com/avoronin/exchange-sim/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String renders the full build identity on one line.
func String() string {
	return Version + " (" + Commit + ") built " + BuildTime
}
