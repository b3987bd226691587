// Package buildinfo identifies the chartlabels build that is running.
//
// The version is printed by "chartlabels --version", reported by the
// server's /healthz endpoint, and scopes artifact cache keys so a new
// release never serves output rendered by an older one. Release builds set
// it through the linker:
//
//	go build -ldflags "-X github.com/matzehuels/chartlabels/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/chartlabels/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/chartlabels/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/chartlabels
package buildinfo

import "fmt"

// Linker-set build identity. Local builds keep the defaults.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build identity as reported over HTTP.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current returns the identity of the running binary.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Template returns the cobra version template, for example
// "chartlabels version v0.3.0 (abc1234, built 2024-05-01T10:00:00Z)".
func Template() string {
	i := Current()
	return fmt.Sprintf("{{.Name}} version %s (%s, built %s)\n", i.Version, i.Commit, i.Date)
}
