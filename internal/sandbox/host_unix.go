//go:build !windows
// +build !windows

package sandbox

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"syscall"
	"time"
)

// HostRunner runs commands directly on the host machine without isolation.
// It is used when Docker is unavailable or explicitly requested.
type HostRunner struct {
	config Config
}

// NewHostRunner returns a host runner using config's timeout.
func NewHostRunner(config Config) *HostRunner {
	return &HostRunner{config: config}
}

// Isolated implements Runner.
func (r *HostRunner) Isolated() bool { return false }

// RunCmd runs name in workDir. The whole process group is killed when the
// timeout expires or ctx is cancelled.
func (r *HostRunner) RunCmd(ctx context.Context, workDir, name string, args []string, timeout time.Duration) (Result, error) {
	cctx, cancel := context.WithTimeout(ctx, r.config.timeout(timeout))
	defer cancel()

	cmd := exec.Command(name, args...)
	cmd.Dir = workDir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if err := cmd.Start(); err != nil {
		return Result{}, err
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-cctx.Done():
			if cmd.Process != nil {
				syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
			}
		case <-done:
		}
	}()

	waitErr := cmd.Wait()
	close(done)

	res := Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}
	if cctx.Err() != nil {
		res.TimedOut = true
	}

	if waitErr != nil {
		res.Code = 1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			res.Code = exitErr.ExitCode()
		}
		return res, waitErr
	}
	return res, nil
}
