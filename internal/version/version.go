// Package version отдает метаданные сборки. Значения приходят через -ldflags:
//
//	go build -ldflags "-X scene-server/internal/version.BuildDate=2026-01-15 -X scene-server/internal/version.BuildCommit=abc123"
//
// Без ldflags commit берется из VCS-данных, которые Go вшивает в бинарник.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// buildEpoch - день первой сборки сервера сцен, BuildID считается от него.
var buildEpoch = time.Date(
	2025, time.December, 4,
	0, 0, 0, 0,
	time.UTC,
)

// VersionInfo describes the build metadata in structured form.
type VersionInfo struct {
	BuildID    int    `json:"build_id"`
	BuildDate  string `json:"build_date,omitempty"`
	Commit     string `json:"commit,omitempty"`
	Branch     string `json:"branch,omitempty"`
	CI         string `json:"ci,omitempty"`
	GoVersion  string `json:"go_version"`
	Dirty      bool   `json:"dirty,omitempty"`
	Calculated bool   `json:"calculated"`
	Error      string `json:"error,omitempty"`
}

func CalculateBuildID() (int, error) {
	return buildIDFor(BuildDate)
}

func buildIDFor(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("BuildDate is empty")
	}

	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid BuildDate %q: %w", date, err)
	}

	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("BuildDate %s is before epoch", date)
	}

	// Using hours avoids DST issues; epoch and build date are both UTC.
	return int(t.Sub(buildEpoch).Hours() / 24), nil
}

// vcsInfo читает commit и dirty-флаг из debug.BuildInfo.
func vcsInfo() (commit string, dirty bool) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	return commit, dirty
}

// Info returns structured version information.
// Safe to call at any time.
func Info() VersionInfo {
	info := VersionInfo{
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		CI:        BuildCI,
		GoVersion: runtime.Version(),
	}
	if info.Commit == "" {
		info.Commit, info.Dirty = vcsInfo()
	}

	id, err := CalculateBuildID()
	if err != nil {
		info.Error = err.Error()
		return info
	}

	info.BuildID = id
	info.Calculated = true
	return info
}

// String returns a human-readable build string.
func String() string {
	info := Info()

	if !info.Calculated {
		return fmt.Sprintf("Build unknown (%s) commit[%s] %s", info.Error, coalesce(info.Commit, "unknown"), info.GoVersion)
	}

	return fmt.Sprintf(
		"Build %d (%s) commit[%s] branch[%s] ci[%s] %s",
		info.BuildID,
		info.BuildDate,
		coalesce(info.Commit, "unknown"),
		coalesce(info.Branch, "unknown"),
		coalesce(info.CI, "local"),
		info.GoVersion,
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
