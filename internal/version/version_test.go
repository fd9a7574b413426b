package version

import (
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stashBuildVars(t *testing.T) {
	t.Helper()
	oldVersion, oldCommit, oldTime := Version, GitCommit, BuildTime
	t.Cleanup(func() {
		Version, GitCommit, BuildTime = oldVersion, oldCommit, oldTime
	})
}

func TestGetVersionLinked(t *testing.T) {
	stashBuildVars(t)

	Version = "1.2.3"
	assert.Equal(t, "1.2.3", GetVersion())
}

func TestGetGitCommitLinked(t *testing.T) {
	stashBuildVars(t)

	GitCommit = "abcdef1234567890"
	assert.Equal(t, "abcdef1234567890", GetGitCommit())
}

func TestGetShortVersion(t *testing.T) {
	stashBuildVars(t)

	Version = "1.2.3"
	GitCommit = "abcdef1234567890"
	assert.Equal(t, "1.2.3 (abcdef1)", GetShortVersion())

	GitCommit = "unknown"
	assert.Equal(t, "1.2.3", GetShortVersion())
}

func TestGetBuildInfo(t *testing.T) {
	stashBuildVars(t)

	Version = "1.2.3"
	GitCommit = "abcdef1234567890"
	BuildTime = "2026-08-01T12:00:00Z"

	info := GetBuildInfo()
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abcdef1234567890", info.GitCommit)
	assert.Equal(t, 2026, info.BuildTime.Year())
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH), info.Platform)
}

func TestGetDetailedVersion(t *testing.T) {
	stashBuildVars(t)

	Version = "1.2.3"
	GitCommit = "abcdef1234567890"
	BuildTime = "2026-08-01T12:00:00Z"

	detailed := GetDetailedVersion()
	assert.Contains(t, detailed, "Version: 1.2.3")
	assert.Contains(t, detailed, "Commit: abcdef1234567890")
	assert.Contains(t, detailed, "Built: 2026-08-01T12:00:00Z")
	assert.Contains(t, detailed, "Go: "+runtime.Version())
	assert.Contains(t, detailed, "Platform: ")
}

func TestGetDetailedVersionOmitsUnknowns(t *testing.T) {
	stashBuildVars(t)

	Version = "1.2.3"
	GitCommit = "unknown"
	BuildTime = "unknown"

	detailed := GetDetailedVersion()
	assert.NotContains(t, detailed, "Commit:")
	assert.NotContains(t, detailed, "Built:")
}

func TestParseBuildTime(t *testing.T) {
	parsed := parseBuildTime("2026-08-01T12:00:00Z")
	require.False(t, parsed.IsZero())
	assert.Equal(t, time.August, parsed.Month())

	assert.True(t, parseBuildTime("2026-08-01T12:00:00").Equal(
		time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)))
	assert.True(t, parseBuildTime("unknown").IsZero())
	assert.True(t, parseBuildTime("").IsZero())
	assert.True(t, parseBuildTime("yesterday").IsZero())
}
