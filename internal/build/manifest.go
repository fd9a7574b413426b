package build

import (
	"time"

	"github.com/conneroisu/marklet/internal/types"
)

// Manifest is the machine-readable build report emitted with analyze mode.
type Manifest struct {
	BuildID     string              `json:"build_id"`
	Version     string              `json:"version"`
	GeneratedAt time.Time           `json:"generated_at"`
	Duration    string              `json:"duration"`
	URIBytes    int                 `json:"uri_bytes"`
	CacheHits   int64               `json:"cache_hits"`
	Components  []ManifestComponent `json:"components"`
	Artifacts   []Artifact          `json:"artifacts"`
	Stages      map[string]string   `json:"stages,omitempty"`
}

// ManifestComponent records one component's identity and size breakdown.
// Extra carries the metadata keys the tool does not interpret; the manifest
// is the only artifact they reach.
type ManifestComponent struct {
	Name         string                 `json:"name"`
	Title        string                 `json:"title,omitempty"`
	Version      string                 `json:"version,omitempty"`
	FilePath     string                 `json:"file_path"`
	Hash         string                 `json:"hash"`
	RawSize      int                    `json:"raw_size"`
	CompiledSize int                    `json:"compiled_size"`
	Cached       bool                   `json:"cached,omitempty"`
	Extra        map[string]interface{} `json:"extra,omitempty"`
}

// newManifest assembles the manifest for a finished run.
func newManifest(buildID, appVersion string, duration time.Duration, components []*types.CompiledComponent, artifacts []Artifact, uriBytes int, metrics MetricsSnapshot) *Manifest {
	manifest := &Manifest{
		BuildID:     buildID,
		Version:     appVersion,
		GeneratedAt: time.Now().UTC(),
		Duration:    duration.String(),
		URIBytes:    uriBytes,
		CacheHits:   metrics.CacheHits,
		Components:  make([]ManifestComponent, 0, len(components)),
		Artifacts:   artifacts,
	}

	for _, component := range components {
		manifest.Components = append(manifest.Components, ManifestComponent{
			Name:         component.Name,
			Title:        component.Title,
			Version:      component.Version,
			FilePath:     component.FilePath,
			Hash:         component.Hash,
			RawSize:      component.RawSize(),
			CompiledSize: component.CompiledSize(),
			Cached:       component.Cached,
			Extra:        component.Extra,
		})
	}

	if len(metrics.StageDurations) > 0 {
		manifest.Stages = make(map[string]string, len(metrics.StageDurations))
		for stage, duration := range metrics.StageDurations {
			manifest.Stages[stage] = duration.String()
		}
	}

	return manifest
}
