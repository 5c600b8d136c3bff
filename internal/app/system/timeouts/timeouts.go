// Package timeouts provides centralized timeout values for handler
// operations, used with context.WithTimeout around database and
// collaborator calls.
//
// Guidelines:
//   - Ping: health checks
//   - Short: single-record reads and writes
//   - Medium: list queries and the per-album count/preview fan-out
//   - Long: uploads and multi-record writes (rename cascades)
package timeouts

import "time"

const (
	ping   = 2 * time.Second
	short  = 5 * time.Second
	medium = 10 * time.Second
	long   = 30 * time.Second
)

// Ping returns the timeout for health checks.
func Ping() time.Duration { return ping }

// Short returns the timeout for single-record operations.
func Short() time.Duration { return short }

// Medium returns the timeout for list queries and fan-outs.
func Medium() time.Duration { return medium }

// Long returns the timeout for uploads and cascading writes.
func Long() time.Duration { return long }
