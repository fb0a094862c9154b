// Package lifecycle holds the shared limits of application start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds graceful shutdown of servers and background workers.
const DefaultTimeout = 10 * time.Second
