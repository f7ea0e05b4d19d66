package metrics

import "testing"

func TestMetricFieldKeysAreStable(t *testing.T) {
	keys := []string{AttrMethod, AttrPath, AttrStatus, AttrSource, AttrOrigin}
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k == "" {
			t.Fatalf("expected metric attribute keys to be non-empty")
		}
		if _, dup := seen[k]; dup {
			t.Fatalf("duplicate attribute key %q", k)
		}
		seen[k] = struct{}{}
	}
}
