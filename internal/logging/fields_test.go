package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestWithCommon(t *testing.T) {
	existing := slog.String("existing", "x")
	cases := []struct {
		name     string
		service  string
		version  string
		wantKeys []string
	}{
		{"both", "svc", "v1", []string{"existing", FieldService, FieldVersion}},
		{"service only", "svc", "", []string{"existing", FieldService}},
		{"neither", "", "", []string{"existing"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			attrs := WithCommon([]slog.Attr{existing}, tc.service, tc.version)
			if len(attrs) != len(tc.wantKeys) {
				t.Fatalf("expected %d attrs, got %+v", len(tc.wantKeys), attrs)
			}
			for i, key := range tc.wantKeys {
				if attrs[i].Key != key {
					t.Fatalf("attr %d: expected key %q, got %q", i, key, attrs[i].Key)
				}
			}
		})
	}
}

func TestForSourceAddsField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Output: &buf, Level: "debug"})

	Debug(ForSource(logger, "owl2021"), "loaded")
	if !strings.Contains(buf.String(), FieldSource+"=owl2021") {
		t.Fatalf("expected source field, got %q", buf.String())
	}
	if ForSource(nil, "x") != nil {
		t.Fatal("expected nil logger to stay nil")
	}
	if ForSource(logger, "") != logger {
		t.Fatal("expected empty name to return the same logger")
	}
}
