package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
)

const sampleSources = `
sources:
  - name: owl2024
    url: https://example.test/owl/2024
    cache: schedules/owl2024.json
    tag: OWL
    default: true
    regions:
      NA: 1234
      EU: "5678"
  - name: owl2019
    url: https://example.test/owl/2019
    final: true
`

func TestParseSources(t *testing.T) {
	got, err := ParseSources([]byte(sampleSources))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []schedule.SourceDescriptor{
		{
			Name:            "owl2024",
			URL:             "https://example.test/owl/2024",
			CachePath:       "schedules/owl2024.json",
			Tag:             "owl",
			DefaultIncluded: true,
			Regions:         map[string]string{"NA": "1234", "EU": "5678"},
		},
		{
			Name:      "owl2019",
			URL:       "https://example.test/owl/2019",
			CachePath: "owl2019.json",
			Tag:       "owl2019",
			Final:     true,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected sources (-want +got):\n%s", diff)
	}
}

func TestParseSourcesValidation(t *testing.T) {
	cases := map[string]string{
		"empty":       `sources: []`,
		"no name":     "sources:\n  - url: https://x\n",
		"no url":      "sources:\n  - name: a\n",
		"duplicate":   "sources:\n  - {name: a, url: https://x}\n  - {name: a, url: https://y}\n",
		"bad yaml":    "sources: [",
		"same cache":  "sources:\n  - {name: a, url: https://x, cache: shared.json}\n  - {name: b, url: https://y, cache: ./shared.json}\n",
		"cache clash": "sources:\n  - {name: a, url: https://x}\n  - {name: b, url: https://y, cache: a.json}\n",
		"region list": "sources:\n  - name: a\n    url: https://x\n    regions:\n      NA: [1, 2]\n",
		"wrong shape": "sources: {name: a}",
	}
	for name, raw := range cases {
		if _, err := ParseSources([]byte(raw)); !errors.Is(err, ErrInvalidSources) {
			t.Fatalf("%s: expected ErrInvalidSources, got %v", name, err)
		}
	}
}

func TestLoadSourcesReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte(sampleSources), 0o644); err != nil {
		t.Fatalf("failed to write sources: %v", err)
	}
	descs, err := LoadSources(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(descs) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(descs))
	}
	if _, err := LoadSources(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFixtureSources(t *testing.T) {
	descs := FixtureSources()
	if len(descs) != 1 || !descs[0].DefaultIncluded || descs[0].CachePath == "" {
		t.Fatalf("unexpected fixture sources %+v", descs)
	}
}

func TestExampleSourcesFileIsValid(t *testing.T) {
	descs, err := LoadSources(filepath.Join("..", "..", "sources.example.yaml"))
	if err != nil {
		t.Fatalf("example sources invalid: %v", err)
	}
	if len(descs) != 3 {
		t.Fatalf("expected 3 example sources, got %d", len(descs))
	}
	contenders := descs[1]
	if contenders.Regions["NA"] != "17" || contenders.DefaultIncluded {
		t.Fatalf("unexpected contenders source %+v", contenders)
	}
	if !descs[2].Final {
		t.Fatalf("expected archived season to be final")
	}
}
