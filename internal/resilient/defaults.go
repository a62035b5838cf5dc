package resilient

import "time"

const (
	defaultTTL         = 30 * time.Second
	defaultMaxRetries  = 3
	defaultBaseDelay   = time.Second
	defaultBatchPacing = 100 * time.Millisecond
	defaultOperation   = "read"
)
