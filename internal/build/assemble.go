package build

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"text/template"

	"github.com/conneroisu/marklet/internal/errors"
	"github.com/conneroisu/marklet/internal/types"
)

//go:embed loader.js.tmpl
var defaultLoaderTemplate string

// registryEntry is one component's slot in the loader lookup object.
type registryEntry struct {
	HTML    string `json:"html"`
	CSS     string `json:"css"`
	JS      string `json:"js"`
	Title   string `json:"title"`
	Version string `json:"version"`
}

// RegistryJSON serializes compiled components into the loader lookup object
// keyed by component name. encoding/json sorts map keys and escapes angle
// brackets, so identical inputs produce identical bytes and the result stays
// inert inside script contexts.
func RegistryJSON(components []*types.CompiledComponent) (string, error) {
	registry := make(map[string]registryEntry, len(components))
	for _, component := range components {
		registry[component.Name] = registryEntry{
			HTML:    component.MinMarkup,
			CSS:     component.MinStyle,
			JS:      component.MinScript,
			Title:   component.Title,
			Version: component.Version,
		}
	}

	data, err := json.Marshal(registry)
	if err != nil {
		return "", errors.NewBuildError(errors.ErrCodeBuildFailed, "serializing component registry", err)
	}

	return string(data), nil
}

// LoaderData is the payload spliced into the loader template.
type LoaderData struct {
	// Registry is the JSON lookup object produced by RegistryJSON.
	Registry string

	// Version tags the loader so re-running the bookmarklet on a page that
	// already installed the same build reopens the picker instead of
	// redefining the API.
	Version string

	// Preselect names a component the loader mounts immediately instead of
	// showing the picker panel. Empty means no preselection.
	Preselect string
}

// LoaderSource returns the loader template source. An empty path selects the
// embedded default; otherwise the file at path is read.
func LoaderSource(path string) (string, error) {
	if path == "" {
		return defaultLoaderTemplate, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotFound, fmt.Sprintf("reading loader template %s", path), err)
	}

	return string(data), nil
}

// SpliceLoader renders the loader template with the given data.
func SpliceLoader(source string, data LoaderData) (string, error) {
	tmpl, err := template.New("loader").Parse(source)
	if err != nil {
		return "", errors.NewBuildError(errors.ErrCodeTemplateInvalid, "parsing loader template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.NewBuildError(errors.ErrCodeTemplateInvalid, "rendering loader template", err)
	}

	return buf.String(), nil
}
