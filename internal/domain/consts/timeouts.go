package consts

import "time"

// Retry configuration.
const (
	DefaultMaxAttempts = 3
)

// File operations.
const (
	DefaultSettleDelay = 2 * time.Second
)

// Database.
const (
	DatabaseBusyTimeoutMs = 5000
)
