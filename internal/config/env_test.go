package config

import (
	"testing"
	"time"
)

func TestBoolEnvOrDefault(t *testing.T) {
	t.Setenv("BOOL_TEST", "")
	if got := boolEnvOrDefault("BOOL_TEST", true); !got {
		t.Fatalf("expected default true when unset")
	}

	cases := []struct {
		val      string
		expected bool
	}{
		{"true", true},
		{" TRUE ", true},
		{"1", true},
		{"on", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"off", false},
		{"maybe", true},
	}

	for _, tc := range cases {
		t.Setenv("BOOL_TEST", tc.val)
		if got := boolEnvOrDefault("BOOL_TEST", true); got != tc.expected {
			t.Fatalf("expected %v for %q, got %v", tc.expected, tc.val, got)
		}
	}
}

func TestNumericEnvRejectsNonPositive(t *testing.T) {
	t.Setenv("INT_TEST", "-2")
	if got := intEnvOrDefault("INT_TEST", 7); got != 7 {
		t.Fatalf("expected default for negative int, got %d", got)
	}
	t.Setenv("INT_TEST", "12")
	if got := intEnvOrDefault("INT_TEST", 7); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}

	t.Setenv("DUR_TEST", "0s")
	if got := durationEnvOrDefault("DUR_TEST", time.Minute); got != time.Minute {
		t.Fatalf("expected default for zero duration, got %v", got)
	}
	t.Setenv("DUR_TEST", "90s")
	if got := durationEnvOrDefault("DUR_TEST", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
}

func TestPortEnvStripsColon(t *testing.T) {
	t.Setenv("PORT_TEST", ":8081")
	if got := portEnvOrDefault("PORT_TEST", "4000"); got != "8081" {
		t.Fatalf("expected 8081, got %q", got)
	}
	t.Setenv("PORT_TEST", "  ")
	if got := portEnvOrDefault("PORT_TEST", "4000"); got != "4000" {
		t.Fatalf("expected default for blank value, got %q", got)
	}
}
