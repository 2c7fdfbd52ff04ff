package engine

import (
	"log"
)

// DefaultHooks returns default hooks for an agent (logger + console).
func DefaultHooks() Hooks {
	return Hooks{
		LoggerHook{L: log.Default()},
		NewConsoleHook(),
	}
}
