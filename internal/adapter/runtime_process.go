package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"time"
)

// ProcessSpec describes the external runtime process to spawn.
type ProcessSpec struct {
	Command string
	Args    []string
	// Addr is the base URL the process serves, e.g. http://127.0.0.1:32055.
	Addr string
	// ReadyTimeout bounds how long to wait for the process to accept requests.
	ReadyTimeout time.Duration
}

// RuntimeProcessAdapter spawns the long-lived process that executes generated code.
type RuntimeProcessAdapter interface {
	Start(ctx context.Context, spec ProcessSpec) (RuntimeProcess, error)
}

// RuntimeProcess is a running external runtime.
type RuntimeProcess interface {
	// WaitReady blocks until the process answers HTTP requests.
	WaitReady(ctx context.Context) error
	// Kill terminates the process. It is safe to call more than once.
	Kill() error
}

// LocalRuntimeProcessAdapter spawns processes with os/exec.
type LocalRuntimeProcessAdapter struct {
	pollInterval time.Duration
}

// NewLocalRuntimeProcessAdapter constructs a LocalRuntimeProcessAdapter.
func NewLocalRuntimeProcessAdapter() *LocalRuntimeProcessAdapter {
	return &LocalRuntimeProcessAdapter{pollInterval: 100 * time.Millisecond}
}

// Start launches the process described by spec.
func (a *LocalRuntimeProcessAdapter) Start(ctx context.Context, spec ProcessSpec) (RuntimeProcess, error) {
	if spec.Command == "" {
		return nil, errors.New("runtime command is empty")
	}

	// #nosec G204 - the runtime command comes from the harness configuration
	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		slog.Error("Failed to start runtime process", "command", spec.Command, "args", spec.Args, "error", err)
		return nil, fmt.Errorf("start runtime process: %w", err)
	}

	slog.Info("Runtime process started", "command", spec.Command, "pid", cmd.Process.Pid)

	return &localRuntimeProcess{
		cmd:          cmd,
		addr:         spec.Addr,
		readyTimeout: spec.ReadyTimeout,
		pollInterval: a.pollInterval,
		client:       &http.Client{Timeout: time.Second},
	}, nil
}

type localRuntimeProcess struct {
	cmd          *exec.Cmd
	addr         string
	readyTimeout time.Duration
	pollInterval time.Duration
	client       *http.Client
	killed       bool
}

func (p *localRuntimeProcess) WaitReady(ctx context.Context) error {
	if p.readyTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, p.readyTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.addr+"/health", nil)
		if err != nil {
			return fmt.Errorf("build readiness request: %w", err)
		}

		resp, err := p.client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			return nil
		}

		select {
		case <-ctx.Done():
			slog.Error("Runtime process never became ready", "addr", p.addr, "error", err)
			return fmt.Errorf("runtime process at %s not ready: %w", p.addr, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (p *localRuntimeProcess) Kill() error {
	if p.killed || p.cmd.Process == nil {
		return nil
	}

	p.killed = true

	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		slog.Error("Failed to kill runtime process", "pid", p.cmd.Process.Pid, "error", err)
		return fmt.Errorf("kill runtime process: %w", err)
	}

	_ = p.cmd.Wait()

	slog.Info("Runtime process stopped", "pid", p.cmd.Process.Pid)

	return nil
}
