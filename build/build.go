// Package build describes the running binary. Details come from a JSON blob
// injected with -ldflags when there is one, and from the module build info
// recorded by the Go toolchain otherwise.
package build

import (
	"encoding/json"
	"log/slog"
	"runtime/debug"
)

// Info contains build metadata.
type Info struct {
	Version      string            `json:"version,omitempty"`
	GitCommit    string            `json:"git_commit,omitempty"`   //nolint:tagliatelle
	GitDate      string            `json:"git_date,omitempty"`     //nolint:tagliatelle
	GitModified  bool              `json:"git_modified,omitempty"` //nolint:tagliatelle
	BuildTime    string            `json:"build_time,omitempty"`   //nolint:tagliatelle
	GoVersion    string            `json:"go_version,omitempty"`   //nolint:tagliatelle
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Parse deserializes a JSON string into build Info.
// Returns (nil, false) if the input is empty, "{}", or fails to parse.
func Parse(js string) (*Info, bool) {
	if len(js) == 0 || js == "{}" {
		return nil, false
	}

	var info Info

	err := json.Unmarshal([]byte(js), &info)
	if err != nil {
		slog.Warn("Failed to parse build info from JSON",
			"data", js,
			"error", err)

		return nil, false
	}

	return &info, true
}

// FromBuildInfo converts the toolchain's record of a build.
func FromBuildInfo(bi *debug.BuildInfo) *Info {
	info := &Info{
		Version:   bi.Main.Version,
		GoVersion: bi.GoVersion,
	}

	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.GitCommit = setting.Value
		case "vcs.time":
			info.GitDate = setting.Value
		case "vcs.modified":
			info.GitModified = setting.Value == "true"
		}
	}

	if len(bi.Deps) > 0 {
		info.Dependencies = make(map[string]string, len(bi.Deps))
		for _, dep := range bi.Deps {
			info.Dependencies[dep.Path] = dep.Version
		}
	}

	return info
}

// Current returns the injected info when injected parses, and the
// toolchain's build info otherwise.
func Current(injected string) *Info {
	if info, ok := Parse(injected); ok {
		return info
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		return FromBuildInfo(bi)
	}

	return &Info{}
}
