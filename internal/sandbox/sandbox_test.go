//go:build !windows

package sandbox

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Mode
		timeout time.Duration
	}{
		{"defaults", map[string]string{"REACTCHAIN_SANDBOX_MODE": "", "REACTCHAIN_CMD_TIMEOUT": ""}, ModeAuto, defaultCmdTimeout},
		{"host", map[string]string{"REACTCHAIN_SANDBOX_MODE": "HOST", "REACTCHAIN_CMD_TIMEOUT": "5s"}, ModeHost, 5 * time.Second},
		{"docker", map[string]string{"REACTCHAIN_SANDBOX_MODE": "docker", "REACTCHAIN_CMD_TIMEOUT": ""}, ModeDocker, defaultCmdTimeout},
		{"unknown falls back", map[string]string{"REACTCHAIN_SANDBOX_MODE": "vm", "REACTCHAIN_CMD_TIMEOUT": "nope"}, ModeAuto, defaultCmdTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := DefaultConfig()
			assert.Equal(t, tt.want, cfg.Mode)
			assert.Equal(t, tt.timeout, cfg.CmdTimeout)
		})
	}
}

func TestImageFor(t *testing.T) {
	assert.Equal(t, "node:alpine", ImageFor("node", Config{}))
	assert.Equal(t, "python:alpine", ImageFor("/usr/bin/python3", Config{}))
	assert.Equal(t, "alpine:latest", ImageFor("sh", Config{}))
	assert.Equal(t, "custom:1", ImageFor("node", Config{DockerImage: "custom:1"}))
}

func TestParseLimits(t *testing.T) {
	assert.Equal(t, int64(512*1024*1024), parseMemory("512m"))
	assert.Equal(t, int64(1024*1024*1024), parseMemory("1g"))
	assert.Equal(t, int64(defaultMemory), parseMemory(""))
	assert.Equal(t, int64(defaultMemory), parseMemory("lots"))

	assert.Equal(t, 0.5, parseCPU("0.5"))
	assert.Equal(t, defaultCPU, parseCPU(""))
	assert.Equal(t, defaultCPU, parseCPU("-1"))
}

func TestHostRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := NewHostRunner(Config{})
	assert.False(t, r.Isolated())

	res, err := r.RunCmd(context.Background(), t.TempDir(), "sh", []string{"-c", "echo out; echo err >&2; exit 3"}, 0)
	require.Error(t, err)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
	assert.Equal(t, 3, res.Code)
	assert.False(t, res.TimedOut)
}

func TestHostRunner_Timeout(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	r := NewHostRunner(Config{})
	res, err := r.RunCmd(context.Background(), t.TempDir(), "sleep", []string{"5"}, 100*time.Millisecond)
	require.Error(t, err)
	assert.True(t, res.TimedOut)
}
