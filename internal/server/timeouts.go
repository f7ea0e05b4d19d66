package server

import "time"

const (
	readTimeout = 10 * time.Second
	// Calendar requests may wait on an upstream fetch.
	writeTimeout = 45 * time.Second
	idleTimeout  = 60 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second
