// Package sandbox runs untrusted programs, such as the scripts the model
// writes, in a Docker container or, failing that, on the host.
package sandbox

import (
	"context"
	"time"
)

// Result captures output of a command.
type Result struct {
	Stdout   string
	Stderr   string
	Code     int
	TimedOut bool
}

// Runner runs a command against a work directory.
type Runner interface {
	// RunCmd runs name with args in workDir. A timeout <= 0 uses the
	// configured default.
	RunCmd(ctx context.Context, workDir, name string, args []string, timeout time.Duration) (Result, error)
	// Isolated reports whether the runner contains the command.
	Isolated() bool
}
