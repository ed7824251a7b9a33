package component

import (
	"encoding/json"
	"regexp"
	"strings"

	cerrors "github.com/vango-dev/compose/internal/errors"
)

// Manifest is the serialized form of a component, as served by the HTTP,
// S3 and directory loaders:
//
//	{
//	  "name": "user-card",
//	  "template": "<div class=\"card\"><h2 data-text=\"name\"></h2></div>",
//	  "viewModel": "user-card"
//	}
//
// ViewModel names a Factory registered with the loader. A manifest without
// one describes a template-only component.
type Manifest struct {
	Name      string `json:"name"`
	Template  string `json:"template"`
	ViewModel string `json:"viewModel,omitempty"`
}

// Factories maps view-model names used in manifests to factories.
type Factories map[string]Factory

// ParseManifest decodes a manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, cerrors.New("E211").Wrap(err)
	}
	return &m, nil
}

// Definition builds a Definition from the manifest. An empty template is
// allowed only when the view-model is expected to supply one.
func (m *Manifest) Definition(factories Factories) (*Definition, error) {
	def := &Definition{Name: m.Name}
	if m.Template != "" {
		def.Template = HTML(m.Template)
	}
	if m.ViewModel != "" {
		f, ok := factories[m.ViewModel]
		if !ok {
			return nil, cerrors.New("E211").
				WithDetailf("component %q: unknown view-model %q", m.Name, m.ViewModel).
				WithSuggestion("Register the factory with the loader's Factories.")
		}
		def.CreateViewModel = f
	}
	if def.Template == nil && def.CreateViewModel == nil {
		return nil, cerrors.New("E211").WithDetailf("component %q has neither template nor view-model", m.Name)
	}
	return def, nil
}

var validName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// ValidName reports whether name can be used as a loader key. Names map to
// file paths and object keys, so separators and ".." are rejected.
func ValidName(name string) bool {
	return validName.MatchString(name) && !strings.Contains(name, "..")
}

func decodeDefinition(name string, data []byte, factories Factories) (*Definition, error) {
	m, err := ParseManifest(data)
	if err != nil {
		return nil, cerrors.FromError(err, "E211").WithDetailf("component %q", name)
	}
	if m.Name == "" {
		m.Name = name
	}
	return m.Definition(factories)
}
