package server

import (
	"strings"

	"github.com/preston-bernstein/owl-calendar-service/internal/config"
)

// normalizeProviderName lower-cases the configured provider, defaulting to the fixture.
func normalizeProviderName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return config.ProviderFixture
	}
	return name
}
