package follower

import "time"

const (
	defaultInterval = 30 * time.Second
	defaultWorkers  = 4

	snapshotBatchSize     = 500
	snapshotFlushInterval = 5 * time.Second
	snapshotFlushRPS      = 10
)
