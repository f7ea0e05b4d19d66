package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
)

// ErrInvalidSources is returned when the sources file fails validation.
var ErrInvalidSources = errors.New("invalid sources file")

// TournamentID accepts numeric or string ids in YAML.
type TournamentID string

func (t *TournamentID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("tournament id must be a scalar, got line %d", value.Line)
	}
	*t = TournamentID(strings.TrimSpace(value.Value))
	return nil
}

type sourcesFile struct {
	Sources []sourceEntry `yaml:"sources"`
}

type sourceEntry struct {
	Name    string                  `yaml:"name"`
	URL     string                  `yaml:"url"`
	Cache   string                  `yaml:"cache"`
	Tag     string                  `yaml:"tag"`
	Default bool                    `yaml:"default"`
	Final   bool                    `yaml:"final"`
	Regions map[string]TournamentID `yaml:"regions"`
}

// LoadSources reads and validates the YAML sources file at path.
func LoadSources(path string) ([]schedule.SourceDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}
	return ParseSources(data)
}

// ParseSources decodes and validates a sources document, preserving order.
// Cache paths default to "<name>.json" and tags to the lower-cased name.
func ParseSources(data []byte) ([]schedule.SourceDescriptor, error) {
	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSources, err)
	}
	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("%w: no sources configured", ErrInvalidSources)
	}

	seen := make(map[string]struct{}, len(file.Sources))
	caches := make(map[string]string, len(file.Sources))
	descs := make([]schedule.SourceDescriptor, 0, len(file.Sources))
	for i, entry := range file.Sources {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: source %d has no name", ErrInvalidSources, i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate source %q", ErrInvalidSources, name)
		}
		seen[name] = struct{}{}
		if strings.TrimSpace(entry.URL) == "" {
			return nil, fmt.Errorf("%w: source %q has no url", ErrInvalidSources, name)
		}

		desc := schedule.SourceDescriptor{
			Name:            name,
			URL:             strings.TrimSpace(entry.URL),
			CachePath:       strings.TrimSpace(entry.Cache),
			Tag:             strings.ToLower(strings.TrimSpace(entry.Tag)),
			DefaultIncluded: entry.Default,
			Final:           entry.Final,
		}
		if desc.CachePath == "" {
			desc.CachePath = name + ".json"
		}
		cacheKey := filepath.Clean(desc.CachePath)
		if owner, dup := caches[cacheKey]; dup {
			return nil, fmt.Errorf("%w: sources %q and %q share cache file %q", ErrInvalidSources, owner, name, desc.CachePath)
		}
		caches[cacheKey] = name
		if desc.Tag == "" {
			desc.Tag = strings.ToLower(name)
		}
		if len(entry.Regions) > 0 {
			desc.Regions = make(map[string]string, len(entry.Regions))
			for region, id := range entry.Regions {
				desc.Regions[region] = string(id)
			}
		}
		descs = append(descs, desc)
	}
	return descs, nil
}

// FixtureSources returns the built-in sources used when running with the fixture provider
// and no sources file.
func FixtureSources() []schedule.SourceDescriptor {
	return []schedule.SourceDescriptor{
		{
			Name:            "fixture",
			URL:             "https://" + defaultFixtureDomain + "/schedule",
			CachePath:       "fixture.json",
			Tag:             "owl",
			DefaultIncluded: true,
			Regions:         map[string]string{"NA": "fixture-regular", "North America": "fixture-regular"},
		},
	}
}
