package sandbox

import (
	"context"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Mode represents the sandbox execution mode.
type Mode string

const (
	// ModeDocker uses Docker containers for isolation.
	ModeDocker Mode = "docker"
	// ModeHost runs commands directly on the host (no isolation).
	ModeHost Mode = "host"
	// ModeAuto selects Docker if available, otherwise falls back to host.
	ModeAuto Mode = "auto"
)

const defaultCmdTimeout = 30 * time.Second

// Config holds configuration for sandbox execution.
type Config struct {
	Mode        Mode
	DockerImage string        // image override
	CPU         string        // e.g. "1" or "0.5"
	Memory      string        // e.g. "256m"
	CmdTimeout  time.Duration // 0 uses defaultCmdTimeout
}

// DefaultConfig reads REACTCHAIN_SANDBOX_MODE, REACTCHAIN_DOCKER_IMAGE,
// REACTCHAIN_DOCKER_CPU, REACTCHAIN_DOCKER_MEMORY and REACTCHAIN_CMD_TIMEOUT.
func DefaultConfig() Config {
	modeStr := strings.ToLower(os.Getenv("REACTCHAIN_SANDBOX_MODE"))
	if modeStr == "" {
		modeStr = "auto"
	}

	var mode Mode
	switch modeStr {
	case "docker":
		mode = ModeDocker
	case "host":
		mode = ModeHost
	case "auto":
		mode = ModeAuto
	default:
		log.Printf("WARNING: Unknown REACTCHAIN_SANDBOX_MODE value '%s', defaulting to 'auto'", modeStr)
		mode = ModeAuto
	}

	cmdTimeout := defaultCmdTimeout
	if timeoutStr := os.Getenv("REACTCHAIN_CMD_TIMEOUT"); timeoutStr != "" {
		if d, err := time.ParseDuration(timeoutStr); err == nil && d > 0 {
			cmdTimeout = d
		} else {
			log.Printf("WARNING: Invalid REACTCHAIN_CMD_TIMEOUT value '%s', using default %s", timeoutStr, defaultCmdTimeout)
		}
	}

	return Config{
		Mode:        mode,
		DockerImage: os.Getenv("REACTCHAIN_DOCKER_IMAGE"),
		CPU:         getEnvOrDefault("REACTCHAIN_DOCKER_CPU", "1"),
		Memory:      getEnvOrDefault("REACTCHAIN_DOCKER_MEMORY", "256m"),
		CmdTimeout:  cmdTimeout,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func (c Config) timeout(requested time.Duration) time.Duration {
	if requested > 0 {
		return requested
	}
	if c.CmdTimeout > 0 {
		return c.CmdTimeout
	}
	return defaultCmdTimeout
}

// IsDockerAvailable checks if Docker is available and accessible.
func IsDockerAvailable(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "docker", "ps")
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}

// NewDefaultRunner creates a runner for config.Mode:
//   - "docker": Docker, falling back to host with a warning
//   - "host": host executor (no isolation)
//   - "auto": Docker if available, otherwise host
func NewDefaultRunner(config Config) Runner {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch config.Mode {
	case ModeDocker:
		if !IsDockerAvailable(ctx) {
			log.Printf("WARNING: Docker mode requested but Docker is not available. Falling back to host executor.")
			return &HostRunner{config: config}
		}
		dockerRunner, err := NewDockerRunner(config)
		if err != nil {
			log.Printf("WARNING: Failed to create Docker runner: %v. Falling back to host executor.", err)
			return &HostRunner{config: config}
		}
		return dockerRunner

	case ModeHost:
		log.Printf("WARNING: Using host executor (no sandboxing). Scripts run with your privileges.")
		return &HostRunner{config: config}

	default:
		if IsDockerAvailable(ctx) {
			dockerRunner, err := NewDockerRunner(config)
			if err != nil {
				log.Printf("WARNING: Docker available but failed to create runner: %v. Falling back to host executor.", err)
				return &HostRunner{config: config}
			}
			return dockerRunner
		}
		log.Printf("WARNING: Docker not available. Using host executor (no sandboxing).")
		return &HostRunner{config: config}
	}
}
