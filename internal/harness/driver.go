// Package harness implements the concurrent subsystem that spawns a TAP
// test binary, feeds its output into the tap parser, and computes a final
// verdict from parser state plus child exit status (spec C5/C6).
package harness

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/mrz1836/tapctl/internal/tap"
	execpkg "github.com/mrz1836/tapctl/pkg/exec"
	"github.com/mrz1836/tapctl/pkg/log"
	"github.com/mrz1836/tapctl/pkg/security"
)

// Verdict is the harness's final classification of one test run.
type Verdict int

const (
	Success Verdict = iota
	Failed
	Aborted
)

func (v Verdict) String() string {
	switch v {
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "aborted"
	}
}

// childState is the atomic cell the spec's "global harness state" design
// note calls for: it is the only data touched both by the wait goroutine
// (this repository's stand-in for a SIGCHLD handler — Go already reaps the
// child internally, the goroutine just observes and publishes the result)
// and by the driving goroutine. One childState exists per child process,
// not per process image: each concurrent Run has its own child and its own
// cell, which is the correct scope for a harness that a batch runner may
// eventually invoke back-to-back or (future work) concurrently.
type childState struct {
	exited   atomic.Bool
	exitCode atomic.Int64
	signal   atomic.Int64 // 0 when not signaled
}

func (c *childState) publish(state *os.ProcessState, _ error) {
	if state == nil {
		c.exitCode.Store(-1)
		c.exited.Store(true)
		return
	}
	code := state.ExitCode()
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		c.signal.Store(int64(ws.Signal()))
		code = -1
	}
	c.exitCode.Store(int64(code))
	c.exited.Store(true)
}

// RunResult is what the harness driver returns for one invocation.
type RunResult struct {
	State    *tap.State
	Verdict  Verdict
	ExitCode int
	Signal   int
}

// Options configures a Driver using the teacher's functional-options
// convention (pkg/exec.Option).
type Options struct {
	CaptureStderr bool
	IdleTimeout   time.Duration
	GracePeriod   time.Duration
	Logger        log.Logger
	LogSink       io.Writer // raw TAP lines tee'd here when non-nil
	Env           map[string]string
}

// Option mutates Options.
type Option func(*Options)

func WithCaptureStderr(capture bool) Option {
	return func(o *Options) { o.CaptureStderr = capture }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(o *Options) { o.IdleTimeout = d }
}

func WithGracePeriod(d time.Duration) Option {
	return func(o *Options) { o.GracePeriod = d }
}

func WithLogger(l log.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func WithLogSink(w io.Writer) Option {
	return func(o *Options) { o.LogSink = w }
}

func WithEnv(env map[string]string) Option {
	return func(o *Options) { o.Env = env }
}

// Driver is the harness (C5). One Driver can run many invocations
// sequentially; each Run spawns its own child and its own childState.
type Driver struct {
	opts Options
}

// NewDriver builds a Driver with the given options.
func NewDriver(opts ...Option) *Driver {
	o := Options{
		IdleTimeout: 20 * time.Second,
		GracePeriod: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Driver{opts: o}
}

// Run spawns binPath with args (never through a shell), feeds its stdout
// into a fresh tap.Session, and returns the computed verdict. This is the
// spawn/reap/terminate protocol from spec §4.5.
func (d *Driver) Run(ctx context.Context, binPath string, args []string) (*RunResult, error) {
	for _, a := range args {
		if err := security.ValidateCommandArg(a); err != nil {
			return nil, fmt.Errorf("invalid test argument %q: %w", a, err)
		}
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create pipe: %w", err)
	}

	cmd := exec.CommandContext(ctx, binPath, args...) //nolint:gosec // binPath resolved by the batch search path, args validated above
	cmd.Stdout = pw
	if d.opts.CaptureStderr {
		cmd.Stderr = pw
	} else {
		cmd.Stderr = nil
	}
	if len(d.opts.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range d.opts.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return nil, execpkg.CommandError(binPath, args, err)
	}
	_ = pw.Close() // parent holds only the read end from here on

	state := &childState{}
	waitDone := make(chan struct{})
	go func() {
		waitErr := cmd.Wait()
		state.publish(cmd.ProcessState, waitErr)
		close(waitDone)
	}()

	hooks := &tap.Hooks{}
	if d.opts.LogSink != nil {
		hooks.OnPreparse = func(line, terminator []byte) int {
			_, _ = d.opts.LogSink.Write(line)
			_, _ = d.opts.LogSink.Write(terminator)
			return 0
		}
	}

	reader := tap.NewLineReader(pr, tap.WithIdleTimeout(d.opts.IdleTimeout))
	parser := tap.NewParser(hooks)
	session := tap.NewSession(reader, parser)
	outcome := session.Drain()
	reader.Close()
	_ = pr.Close()

	if !state.exited.Load() {
		select {
		case <-waitDone:
		case <-time.After(d.opts.GracePeriod):
			if !state.exited.Load() {
				_ = cmd.Process.Kill()
				<-waitDone
			}
		}
	}

	if d.opts.Logger != nil {
		d.opts.Logger.Debug("harness: %s exited, reader outcome=%v", binPath, outcome)
	}

	exitCode := int(state.exitCode.Load())
	signal := int(state.signal.Load())
	result := &RunResult{
		State:    parser.State(),
		ExitCode: exitCode,
		Signal:   signal,
	}
	result.Verdict = classifyVerdict(parser.State(), exitCode, signal)
	return result, nil
}

// classifyVerdict implements spec §4.5's exit-status table.
func classifyVerdict(st *tap.State, exitCode, signal int) Verdict {
	switch {
	case signal != 0:
		return Aborted
	case exitCode == 0 && st.Failed == 0:
		return Success
	case exitCode == 0 && st.Failed > 0:
		return Failed
	default:
		return Aborted
	}
}
