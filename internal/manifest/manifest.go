// Package manifest reads batch load manifests. Manifests are JSON documents
// that may contain comments and trailing commas; they are normalised with
// github.com/tidwall/jsonc before decoding.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/eugenenazirov/container-load/internal/batch"
	"github.com/eugenenazirov/container-load/internal/calculator"
)

// ErrInvalidManifest is returned when a manifest is structurally incomplete.
var ErrInvalidManifest = errors.New("invalid manifest")

// Manifest names a container and the packages to evaluate against it.
type Manifest struct {
	Container string  `json:"container"`
	Packages  []Entry `json:"packages"`
}

// Entry is one package line of a manifest. Pointer fields distinguish an
// omitted value from an explicit zero so that omissions can be reported.
type Entry struct {
	Label     string   `json:"label"`
	Length    *float64 `json:"length"`
	Width     *float64 `json:"width"`
	Height    *float64 `json:"height"`
	Weight    *float64 `json:"weight"`
	Stackable *bool    `json:"stackable"`
	Quantity  int      `json:"quantity"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes a manifest document. Unknown fields are rejected.
func Parse(data []byte) (*Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if strings.TrimSpace(m.Container) == "" {
		return nil, fmt.Errorf("%w: container is required", ErrInvalidManifest)
	}
	if len(m.Packages) == 0 {
		return nil, fmt.Errorf("%w: at least one package is required", ErrInvalidManifest)
	}
	for i, e := range m.Packages {
		if e.Length == nil || e.Width == nil || e.Height == nil || e.Weight == nil {
			return nil, fmt.Errorf("%w: package %d (%s) must set length, width, height and weight", ErrInvalidManifest, i+1, e.Label)
		}
		if e.Quantity < 0 {
			return nil, fmt.Errorf("%w: package %d (%s) has a negative quantity", ErrInvalidManifest, i+1, e.Label)
		}
	}
	return &m, nil
}

// Items converts manifest entries into batch items. Packages are stackable
// unless the entry says otherwise; unlabelled entries are numbered.
func (m *Manifest) Items() []batch.Item {
	items := make([]batch.Item, 0, len(m.Packages))
	for i, e := range m.Packages {
		label := strings.TrimSpace(e.Label)
		if label == "" {
			label = fmt.Sprintf("package-%d", i+1)
		}
		stackable := true
		if e.Stackable != nil {
			stackable = *e.Stackable
		}
		items = append(items, batch.Item{
			Label:    label,
			Quantity: e.Quantity,
			Package: calculator.PackageSpec{
				Length:    *e.Length,
				Width:     *e.Width,
				Height:    *e.Height,
				Weight:    *e.Weight,
				Stackable: stackable,
			},
		})
	}
	return items
}
