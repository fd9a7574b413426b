package build

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/klauspost/compress/gzip"

	"github.com/conneroisu/marklet/internal/errors"
)

// Artifact file names within the output directory.
const (
	ArtifactLoader   = "bookmarklet.js"
	ArtifactGzip     = "bookmarklet.js.gz"
	ArtifactURI      = "bookmarklet.uri.txt"
	ArtifactInstall  = "install.html"
	ArtifactManifest = "manifest.json"
)

// Artifact describes one emitted build output.
type Artifact struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	GzipSize int64  `json:"gzip_size,omitempty"`
}

// Emitter writes build artifacts atomically into the output directory.
type Emitter struct {
	outputDir string
	compress  bool
}

// NewEmitter creates an emitter for the given output directory.
func NewEmitter(outputDir string, compress bool) *Emitter {
	return &Emitter{outputDir: outputDir, compress: compress}
}

// Emit writes the loader script, the bookmarklet URI and the install page,
// plus a gzipped loader when compression is enabled. Every file lands via an
// atomic rename; the first write failure aborts the emit.
func (e *Emitter) Emit(loaderJS, uri, installHTML string) ([]Artifact, error) {
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeWriteFailed, fmt.Sprintf("creating output directory %s", e.outputDir), err)
	}

	var artifacts []Artifact

	loaderPath := filepath.Join(e.outputDir, ArtifactLoader)
	if err := e.writeArtifact(loaderPath, []byte(loaderJS)); err != nil {
		return nil, err
	}
	loader := Artifact{Name: ArtifactLoader, Path: loaderPath, Size: int64(len(loaderJS))}

	if e.compress {
		compressed, err := gzipBytes([]byte(loaderJS))
		if err != nil {
			return nil, err
		}
		gzipPath := filepath.Join(e.outputDir, ArtifactGzip)
		if err := e.writeArtifact(gzipPath, compressed); err != nil {
			return nil, err
		}
		loader.GzipSize = int64(len(compressed))
		artifacts = append(artifacts, loader, Artifact{Name: ArtifactGzip, Path: gzipPath, Size: int64(len(compressed))})
	} else {
		artifacts = append(artifacts, loader)
	}

	uriData := []byte(uri + "\n")
	uriPath := filepath.Join(e.outputDir, ArtifactURI)
	if err := e.writeArtifact(uriPath, uriData); err != nil {
		return nil, err
	}
	artifacts = append(artifacts, Artifact{Name: ArtifactURI, Path: uriPath, Size: int64(len(uriData))})

	installPath := filepath.Join(e.outputDir, ArtifactInstall)
	if err := e.writeArtifact(installPath, []byte(installHTML)); err != nil {
		return nil, err
	}
	artifacts = append(artifacts, Artifact{Name: ArtifactInstall, Path: installPath, Size: int64(len(installHTML))})

	return artifacts, nil
}

// WriteManifest writes the analyze manifest next to the other artifacts.
func (e *Emitter) WriteManifest(manifest *Manifest) (Artifact, error) {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return Artifact{}, errors.NewBuildError(errors.ErrCodeBuildFailed, "serializing build manifest", err)
	}
	data = append(data, '\n')

	path := filepath.Join(e.outputDir, ArtifactManifest)
	if err := e.writeArtifact(path, data); err != nil {
		return Artifact{}, err
	}

	return Artifact{Name: ArtifactManifest, Path: path, Size: int64(len(data))}, nil
}

// writeArtifact writes data to path through a pending temp file, so readers
// never observe a partially written artifact.
func (e *Emitter) writeArtifact(path string, data []byte) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return errors.NewIOError(errors.ErrCodeWriteFailed, fmt.Sprintf("creating pending file for %s", path), err)
	}
	// Cleanup is a no-op once the file has been replaced.
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return errors.NewIOError(errors.ErrCodeWriteFailed, fmt.Sprintf("writing %s", path), err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return errors.NewIOError(errors.ErrCodeWriteFailed, fmt.Sprintf("replacing %s", path), err)
	}

	return nil
}

// gzipBytes compresses data at the highest level; artifact consumers care
// about transfer size, not compression speed.
func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, errors.NewBuildError(errors.ErrCodeBuildFailed, "initializing gzip writer", err)
	}
	if _, err := zw.Write(data); err != nil {
		return nil, errors.NewBuildError(errors.ErrCodeBuildFailed, "compressing loader script", err)
	}
	if err := zw.Close(); err != nil {
		return nil, errors.NewBuildError(errors.ErrCodeBuildFailed, "finalizing gzip stream", err)
	}

	return buf.Bytes(), nil
}

// CleanArtifacts removes previously emitted artifacts from the output
// directory. Only known artifact names are removed; the directory itself and
// unrelated files stay.
func CleanArtifacts(outputDir string) error {
	names := []string{ArtifactLoader, ArtifactGzip, ArtifactURI, ArtifactInstall, ArtifactManifest}
	for _, name := range names {
		path := filepath.Join(outputDir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.NewIOError(errors.ErrCodeWriteFailed, fmt.Sprintf("removing stale artifact %s", path), err)
		}
	}

	return nil
}
