package phonenumber

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed testdata/metadata.json
var defaultMetadataJSON []byte

// MetadataLoader retrieves the numbering plans used to seed an engine. The
// pipeline that compiles plans from upstream sources is out of scope here;
// loaders only decode already built tables.
type MetadataLoader interface {
	Load() ([]*Metadata, error)
}

// MetadataLoaderFunc adapters allow bare functions to implement MetadataLoader.
type MetadataLoaderFunc func() ([]*Metadata, error)

// Load implements MetadataLoader for MetadataLoaderFunc.
func (fn MetadataLoaderFunc) Load() ([]*Metadata, error) {
	return fn()
}

// metadataFile is the on-disk/embedded table shape.
type metadataFile struct {
	Regions []*Metadata `json:"regions" yaml:"regions"`
}

// EmbeddedMetadataLoader serves the numbering plan table shipped with the
// library.
type EmbeddedMetadataLoader struct{}

func (EmbeddedMetadataLoader) Load() ([]*Metadata, error) {
	plans, err := decodeMetadataJSON(defaultMetadataJSON)
	if err != nil {
		return nil, fmt.Errorf("phonenumber: parse embedded metadata: %w", err)
	}
	return plans, nil
}

// FileMetadataLoader reads plan tables from JSON or YAML files. Later files
// override earlier ones region by region.
type FileMetadataLoader struct {
	paths []string
}

func NewFileMetadataLoader(paths ...string) *FileMetadataLoader {
	return &FileMetadataLoader{paths: append([]string(nil), paths...)}
}

func (l *FileMetadataLoader) Load() ([]*Metadata, error) {
	if l == nil || len(l.paths) == 0 {
		return nil, errors.New("phonenumber: no metadata paths configured")
	}

	merged := make(map[string]*Metadata)
	var order []string

	for _, path := range l.paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("phonenumber: read %s: %w", path, err)
		}
		plans, err := decodeMetadataFile(path, data)
		if err != nil {
			return nil, fmt.Errorf("phonenumber: decode %s: %w", path, err)
		}
		for _, plan := range plans {
			if plan == nil {
				continue
			}
			key := planKey(plan)
			if _, seen := merged[key]; !seen {
				order = append(order, key)
			}
			merged[key] = plan
		}
	}

	out := make([]*Metadata, 0, len(order))
	for _, key := range order {
		out = append(out, merged[key])
	}
	return out, nil
}

// planKey distinguishes non-geographical plans, which all share the 001 id.
func planKey(plan *Metadata) string {
	if plan.ID == nonGeoRegionCode {
		return fmt.Sprintf("%s/%d", nonGeoRegionCode, plan.CountryCode)
	}
	return plan.ID
}

func decodeMetadataFile(path string, data []byte) ([]*Metadata, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return decodeMetadataJSON(data)
	case ".yaml", ".yml":
		return decodeMetadataYAML(data)
	default:
		return nil, fmt.Errorf("unsupported extension %s", ext)
	}
}

func decodeMetadataJSON(data []byte) ([]*Metadata, error) {
	var file metadataFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Regions) == 0 {
		return nil, errors.New("no regions defined")
	}
	return file.Regions, nil
}

func decodeMetadataYAML(data []byte) ([]*Metadata, error) {
	var file metadataFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("yaml parse error: %w", err)
	}
	if len(file.Regions) == 0 {
		return nil, errors.New("no regions defined")
	}
	return file.Regions, nil
}
