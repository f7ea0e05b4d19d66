package sourcecache

import "errors"

// ErrNoData is returned when a source has neither a usable cached copy nor a successful fetch.
var ErrNoData = errors.New("no schedule data available")
