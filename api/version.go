package api

const (
	name           = "swiftmove"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags, e.g.
	// -X "github.com/drblury/swiftmove/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// BuildInfo is served by GET /version.
type BuildInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Build reports the version stamped into the binary.
func Build() BuildInfo {
	return BuildInfo{Name: name, Version: version, Commit: commit, Date: date}
}
