// Package batch implements the batch runner (C7): given a list file of
// test names, it locates each binary, drives the harness once per test,
// and accumulates cross-test totals.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrz1836/tapctl/internal/harness"
	"github.com/mrz1836/tapctl/pkg/common/fileops"
	execpkg "github.com/mrz1836/tapctl/pkg/exec"
	"github.com/mrz1836/tapctl/pkg/retry"
)

// maxListLine bounds a single list-file line; an over-long line (no
// newline found within this budget) is fatal, per spec §4.7.
const maxListLine = 4096

var (
	ErrTestNotFound    = errors.New("test binary not found on search path")
	ErrListLineTooLong = errors.New("list file line exceeds maximum length")
)

// TestEntry is one resolved test's outcome, per spec §3's batch-runner
// state. Retries is a [SUPPLEMENT]: see SPEC_FULL.md §4.7.
type TestEntry struct {
	Name    string
	Path    string
	Result  *harness.RunResult
	Summary harness.Summary
	Retries int
	Err     error
}

// Totals accumulates cross-test counters (spec §3).
type Totals struct {
	TestsRun    int
	Failed      int
	Skipped     int
	Todo        int
	Aborted     int
	ParseErrors int
}

// Options configures a Runner.
type Options struct {
	SourceDir   string
	BuildDir    string
	RetryBudget int // [SUPPLEMENT] extra attempts for aborted (never failed) tests
	DriverOpts  []harness.Option
	FileOps     fileops.FileOperator
	DryRun      bool // [SUPPLEMENT] -n: validate and log the spawn path without running binaries
}

// Runner is the batch runner (C7).
type Runner struct {
	opts      Options
	preflight execpkg.FullExecutor
}

// NewRunner builds a Runner, defaulting FileOps to the concrete
// DefaultFileOperator when the caller doesn't supply one (e.g. a test
// double). When Options.DryRun is set, resolved binaries are run through a
// validating executor in exec.Base's dry-run mode instead of the harness
// (Builder.Build leaves the requested env filtering out of a dry-run
// chain) — this exercises the same argument/path checks a real spawn
// would, and logs "[DRY RUN] Would execute: ..." without starting a process.
func NewRunner(opts Options) *Runner {
	if opts.FileOps == nil {
		opts.FileOps = fileops.NewDefaultFileOperator()
	}
	r := &Runner{opts: opts}
	if opts.DryRun {
		r.preflight = execpkg.NewBuilder().
			WithValidation().
			WithEnvFiltering().
			WithTimeout(30 * time.Second).
			WithDryRun(true).
			Build()
	}
	return r
}

// ParseListFile reads a list file: one test name per line, blank lines and
// '#'-prefixed comments skipped, per spec §4.7.
func (r *Runner) ParseListFile(path string) ([]string, error) {
	data, err := r.opts.FileOps.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read list file %s: %w", path, err)
	}

	var names []string
	for _, raw := range bytes.Split(data, []byte("\n")) {
		if len(raw) > maxListLine {
			return nil, fmt.Errorf("%w: %s", ErrListLineTooLong, path)
		}
		line := trimSpace(raw)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		names = append(names, string(line))
	}
	return names, nil
}

func trimSpace(b []byte) []byte {
	return bytes.TrimSpace(b)
}

// Run resolves and executes every name in the list, accumulating totals.
func (r *Runner) Run(ctx context.Context, names []string) ([]TestEntry, Totals, error) {
	dirs := searchDirs(r.opts.BuildDir, r.opts.SourceDir)
	entries := make([]TestEntry, 0, len(names))
	var totals Totals

	for _, name := range names {
		entry := TestEntry{Name: name}
		path, err := resolveBinary(name, dirs)
		if err != nil {
			entry.Err = err
			entries = append(entries, entry)
			return entries, totals, fmt.Errorf("resolve %s: %w", name, err)
		}
		entry.Path = path

		if r.opts.DryRun {
			if err := r.preflight.Execute(ctx, path); err != nil {
				entry.Err = err
			}
			entries = append(entries, entry)
			continue
		}

		result, attempts, runErr := r.runWithRetry(ctx, path)
		entry.Retries = attempts
		if runErr != nil {
			entry.Err = runErr
			entries = append(entries, entry)
			continue
		}

		entry.Result = result
		entry.Summary = harness.Summarize(result.State)
		entries = append(entries, entry)

		totals.TestsRun += result.State.TestsRun
		totals.Failed += result.State.Failed
		totals.Skipped += result.State.Skipped
		totals.Todo += result.State.Todo
		totals.ParseErrors += result.State.ParseErrors
		if result.Verdict == harness.Aborted {
			totals.Aborted++
		}
	}

	return entries, totals, nil
}

// runWithRetry drives the harness for one test binary under the
// [SUPPLEMENT] flaky-test retry budget from SPEC_FULL.md §4.7. Every
// Aborted verdict is retried, whatever exit code or signal caused it; a
// deterministic Failed verdict is never retried.
func (r *Runner) runWithRetry(ctx context.Context, path string) (*harness.RunResult, int, error) {
	driver := harness.NewDriver(r.opts.DriverOpts...)
	attempts := 0

	if r.opts.RetryBudget <= 0 {
		result, err := driver.Run(ctx, path, nil)
		return result, 0, err
	}

	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = r.opts.RetryBudget + 1
	cfg.Backoff = retry.DefaultBackoff()
	cfg.Classifier = retry.ClassifierFunc(func(err error) bool {
		return errors.Is(err, errTransientAbort)
	})

	result, err := retry.DoWithData(ctx, cfg, func() (*harness.RunResult, error) {
		attempts++
		res, runErr := driver.Run(ctx, path, nil)
		if runErr != nil {
			return res, runErr
		}
		if res.Verdict == harness.Aborted {
			return res, errTransientAbort
		}
		return res, nil
	})
	if errors.Is(err, errTransientAbort) {
		err = nil
	}
	return result, attempts - 1, err
}

var errTransientAbort = errors.New("aborted test run eligible for retry")
