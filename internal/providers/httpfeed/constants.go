package httpfeed

import "time"

const (
	defaultUserAgent    = "owl-calendar-service"
	defaultHTTPTimeout  = 30 * time.Second
	defaultMaxBodyBytes = 32 << 20
	errorBodyPreview    = 512
)
