package build

import (
	"context"
	"fmt"
	"hash/crc32"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/conneroisu/marklet/internal/bookmarklet"
	"github.com/conneroisu/marklet/internal/config"
	"github.com/conneroisu/marklet/internal/errors"
	"github.com/conneroisu/marklet/internal/logging"
	"github.com/conneroisu/marklet/internal/minify"
	"github.com/conneroisu/marklet/internal/registry"
	"github.com/conneroisu/marklet/internal/scanner"
	"github.com/conneroisu/marklet/internal/types"
	"github.com/conneroisu/marklet/internal/version"
)

// Result cache bounds. One cache serves all runs of a pipeline instance;
// the size bound counts compiled bytes, not entries.
const (
	defaultCacheSize = 32 * 1024 * 1024
	defaultCacheTTL  = 30 * time.Minute
)

// RunOptions adjusts a single pipeline run.
type RunOptions struct {
	// Analyze additionally emits manifest.json with per-component and
	// per-stage breakdowns.
	Analyze bool

	// Clean removes previously emitted artifacts before building.
	Clean bool
}

// Result summarizes a successful pipeline run.
type Result struct {
	BuildID     string
	Duration    time.Duration
	Components  []*types.CompiledComponent
	LoaderJS    string
	URI         string
	InstallHTML string
	Artifacts   []Artifact
	CacheHits   int64
}

// Pipeline executes the compile pipeline: scan, per-component compile,
// assemble, encode, emit. A pipeline may run more than once; the result
// cache carries over so unchanged components skip re-minification.
type Pipeline struct {
	config   *config.Config
	registry *registry.ComponentRegistry
	scanner  *scanner.ComponentScanner
	cache    *ResultCache
	metrics  *Metrics
	logger   logging.Logger
}

// New creates a pipeline for the given configuration. A nil logger disables
// logging.
func New(cfg *config.Config, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NopLogger{}
	}

	componentRegistry := registry.NewComponentRegistry()
	componentScanner := scanner.NewComponentScanner(componentRegistry)
	componentScanner.SetExcludePatterns(cfg.Components.ExcludePatterns)

	return &Pipeline{
		config:   cfg,
		registry: componentRegistry,
		scanner:  componentScanner,
		cache:    NewResultCache(defaultCacheSize, defaultCacheTTL),
		metrics:  NewMetrics(),
		logger:   logger,
	}
}

// Registry exposes the pipeline's component registry, populated by Run.
func (p *Pipeline) Registry() *registry.ComponentRegistry {
	return p.registry
}

// Metrics returns a snapshot of the pipeline's metrics.
func (p *Pipeline) Metrics() MetricsSnapshot {
	return p.metrics.GetSnapshot()
}

// Close releases the scanner's worker pool.
func (p *Pipeline) Close() error {
	return p.scanner.Close()
}

// Run executes one full build and returns the produced artifacts.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	start := time.Now()
	buildID := uuid.New().String()
	log := p.logger.With("build_id", buildID)

	if opts.Clean {
		if err := CleanArtifacts(p.config.Build.Output); err != nil {
			return nil, err
		}
	}

	components, err := p.scan(ctx, log)
	if err != nil {
		return nil, err
	}

	compiled, err := p.compile(ctx, components)
	if err != nil {
		return nil, err
	}

	loaderJS, err := p.assemble(compiled)
	if err != nil {
		return nil, err
	}

	uri := bookmarklet.Encode(loaderJS)
	if err := bookmarklet.CheckSize(uri, p.config.Build.MaxURIBytes); err != nil {
		return nil, err
	}

	installHTML, err := bookmarklet.Snippet(uri, bookmarklet.Meta{
		Version:    version.GetVersion(),
		Components: compiled,
	})
	if err != nil {
		return nil, err
	}

	emitStart := time.Now()
	emitter := NewEmitter(p.config.Build.Output, p.config.Build.Compress)
	artifacts, err := emitter.Emit(loaderJS, uri, installHTML)
	if err != nil {
		return nil, err
	}

	snapshot := p.metrics.GetSnapshot()
	duration := time.Since(start)

	if opts.Analyze {
		manifest := newManifest(buildID, version.GetVersion(), duration, compiled, artifacts, len(uri), snapshot)
		manifestArtifact, err := emitter.WriteManifest(manifest)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, manifestArtifact)
	}
	p.metrics.RecordStage("emit", time.Since(emitStart))

	log.Info(ctx, "build complete",
		"components", len(compiled),
		"uri_bytes", len(uri),
		"cache_hits", snapshot.CacheHits,
		"duration", duration,
	)

	return &Result{
		BuildID:     buildID,
		Duration:    duration,
		Components:  compiled,
		LoaderJS:    loaderJS,
		URI:         uri,
		InstallHTML: installHTML,
		Artifacts:   artifacts,
		CacheHits:   snapshot.CacheHits,
	}, nil
}

// scan walks the configured scan paths and returns the discovered components
// sorted by name, narrowed to the target set when one is configured.
func (p *Pipeline) scan(ctx context.Context, log logging.Logger) ([]*types.Component, error) {
	scanStart := time.Now()
	for _, dir := range p.config.Components.ScanPaths {
		if err := p.scanner.ScanDirectory(dir); err != nil {
			return nil, err
		}
	}
	p.metrics.RecordStage("scan", time.Since(scanStart))

	components := p.registry.GetAll()
	if len(p.config.TargetComponents) > 0 {
		var err error
		components, err = selectComponents(components, p.config.TargetComponents)
		if err != nil {
			return nil, err
		}
	}

	if len(components) == 0 {
		message := fmt.Sprintf("no components found under %s", strings.Join(p.config.Components.ScanPaths, ", "))
		return nil, errors.NewBuildError(errors.ErrCodeNoComponents, message, nil)
	}

	log.Debug(ctx, "scan complete", "components", len(components))

	return components, nil
}

// selectComponents narrows the scanned set to the requested names, keeping
// registry order. An unknown name fails the build.
func selectComponents(components []*types.Component, names []string) ([]*types.Component, error) {
	byName := make(map[string]*types.Component, len(components))
	for _, component := range components {
		byName[component.Name] = component
	}

	requested := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := byName[name]; !ok {
			return nil, errors.ErrComponentNotFound(name)
		}
		requested[name] = true
	}

	selected := make([]*types.Component, 0, len(requested))
	for _, component := range components {
		if requested[component.Name] {
			selected = append(selected, component)
		}
	}

	return selected, nil
}

// compile fans per-component validation and minification out across the
// worker budget. The first failure cancels outstanding work.
func (p *Pipeline) compile(ctx context.Context, components []*types.Component) ([]*types.CompiledComponent, error) {
	compileStart := time.Now()
	compiler := NewCompiler(p.config, p.cache)
	compiled := make([]*types.CompiledComponent, len(components))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(p.config.EffectiveWorkers())
	for i, component := range components {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			jobStart := time.Now()
			result, err := compiler.Compile(component)
			p.metrics.RecordCompile(time.Since(jobStart), err == nil && result.Cached, err)
			if err != nil {
				return err
			}

			compiled[i] = result

			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	p.metrics.RecordStage("compile", time.Since(compileStart))

	return compiled, nil
}

// assemble serializes the compiled components, splices them into the loader
// template, and minifies the combined script when minification is on.
func (p *Pipeline) assemble(compiled []*types.CompiledComponent) (string, error) {
	assembleStart := time.Now()

	registryJSON, err := RegistryJSON(compiled)
	if err != nil {
		return "", err
	}

	source, err := LoaderSource(p.config.Build.Loader)
	if err != nil {
		return "", err
	}

	preselect := ""
	if len(compiled) == 1 {
		preselect = compiled[0].Name
	}

	// The loader tag is derived from the registry content, not the build ID,
	// so identical inputs keep producing identical artifacts while a changed
	// component set replaces the API a page may already have installed.
	tag := fmt.Sprintf("%x", crc32.ChecksumIEEE([]byte(registryJSON)))

	loaderJS, err := SpliceLoader(source, LoaderData{
		Registry:  registryJSON,
		Version:   tag,
		Preselect: preselect,
	})
	if err != nil {
		return "", err
	}

	if p.config.Build.Minify {
		loaderJS, err = minify.JS(loaderJS)
		if err != nil {
			return "", err
		}
	}
	p.metrics.RecordStage("assemble", time.Since(assembleStart))

	return loaderJS, nil
}
