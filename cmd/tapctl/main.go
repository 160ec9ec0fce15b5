// Command tapctl runs a TAP-emitting test binary (or a list of them),
// classifies its output, and reports pass/fail/abort.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/mrz1836/tapctl/internal/batch"
	"github.com/mrz1836/tapctl/internal/harness"
	"github.com/mrz1836/tapctl/pkg/common/config"
	"github.com/mrz1836/tapctl/pkg/common/env"
	"github.com/mrz1836/tapctl/pkg/log"
	"github.com/mrz1836/tapctl/pkg/utils"
)

const banner = `tapctl - Test Anything Protocol harness`

// exit codes per spec §6
const (
	exitSuccess = 0
	exitAborted = 1
	exitFailed  = 2
)

// countFlag implements flag.Value as a stackable boolean counter so "-v -v"
// raises verbosity twice, matching the union of CLI variants spec §6 lists.
type countFlag int

func (c *countFlag) String() string   { return fmt.Sprintf("%d", int(*c)) }
func (c *countFlag) Set(string) error { *c++; return nil }
func (c *countFlag) IsBoolFlag() bool { return true }

// fileDefaults is the optional .tapctl.yaml/.json the ambient config loader
// reads for defaults; CLI flags always override it (SPEC_FULL.md §6).
type fileDefaults struct {
	Source        string `yaml:"source" json:"source"`
	Build         string `yaml:"build" json:"build"`
	CaptureStderr bool   `yaml:"capture_stderr" json:"capture_stderr"`
	Retry         int    `yaml:"retry" json:"retry"`
	TimeoutSecs   int    `yaml:"timeout_seconds" json:"timeout_seconds"`
}

type cliFlags struct {
	help          bool
	verbose       countFlag
	debug         bool
	logPath       string
	appendLog     bool
	listMode      bool
	sourceDir     string
	buildDir      string
	captureStderr bool
	retryBudget   int
	timeoutSecs   int
	dryRun        bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	fs := flag.NewFlagSet("tapctl", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var f cliFlags
	fs.BoolVar(&f.help, "h", false, "show help")
	fs.Var(&f.verbose, "v", "increase verbosity (stackable)")
	fs.BoolVar(&f.debug, "d", false, "debug (implies -v -v)")
	fs.StringVar(&f.logPath, "L", "", "append raw TAP lines to a log file (\"stdout\"/\"stderr\" route to those streams)")
	fs.BoolVar(&f.appendLog, "a", false, "open the log file for append instead of truncate")
	fs.BoolVar(&f.listMode, "l", false, "treat the positional argument as a list file")
	fs.StringVar(&f.sourceDir, "s", "", "source directory, exported as SOURCE/TAP_SOURCE")
	fs.StringVar(&f.buildDir, "b", "", "build directory, exported as BUILD/TAP_BUILD")
	fs.BoolVar(&f.captureStderr, "e", false, "capture child stderr into the TAP stream")
	fs.IntVar(&f.retryBudget, "retry", 0, "retry aborted tests up to n times (batch mode only)")
	fs.IntVar(&f.timeoutSecs, "timeout", 0, "override the idle-timeout in seconds (default 20)")
	fs.BoolVar(&f.dryRun, "n", false, "dry run (batch mode only): validate each resolved binary without executing it")
	fs.Usage = func() { showUsage(fs) }

	if err := fs.Parse(argv); err != nil {
		return exitAborted
	}
	if f.help {
		showUsage(fs)
		return exitSuccess
	}

	applyFileDefaults(&f)

	if f.debug && f.verbose < 2 {
		f.verbose = 2
	}

	logger := log.NewCLIAdapter()
	logger.SetLevel(levelFor(int(f.verbose)))
	log.SetDefault(logger)

	args := fs.Args()
	if len(args) != 1 {
		showUsage(fs)
		return exitAborted
	}
	target := args[0]

	logSink, closeSink, err := openLogSink(f.logPath, f.appendLog)
	if err != nil {
		logger.Error("open log sink: %v", err)
		return exitAborted
	}
	defer closeSink()

	envMgr := env.NewDefaultEnvironment()
	unsetEnv := propagateEnv(envMgr, f.sourceDir, f.buildDir)
	defer unsetEnv()

	auditLogger := utils.NewAuditLogger(auditConfig())
	defer auditLogger.Close()

	idleTimeout := 20 * time.Second
	if f.timeoutSecs > 0 {
		idleTimeout = time.Duration(f.timeoutSecs) * time.Second
	}

	driverOpts := []harness.Option{
		harness.WithCaptureStderr(f.captureStderr),
		harness.WithIdleTimeout(idleTimeout),
		harness.WithLogger(logger),
	}
	if logSink != nil {
		driverOpts = append(driverOpts, harness.WithLogSink(logSink))
	}

	ctx := context.Background()
	start := time.Now()

	var code int
	if f.listMode {
		code = runBatch(ctx, target, f, driverOpts, logger)
	} else {
		code = runSingle(ctx, target, driverOpts, logger)
	}

	_ = auditLogger.LogEvent(&utils.AuditEvent{
		Command:    "tapctl",
		Args:       args,
		WorkingDir: mustGetwd(),
		Duration:   time.Since(start),
		ExitCode:   code,
		Success:    code == exitSuccess,
	})

	return code
}

func runSingle(ctx context.Context, target string, driverOpts []harness.Option, logger log.Logger) int {
	driver := harness.NewDriver(driverOpts...)
	result, err := driver.Run(ctx, target, nil)
	if err != nil {
		logger.Error("run %s: %v", target, err)
		return exitAborted
	}
	summary := harness.Summarize(result.State)
	fmt.Println(summary.Text())
	return exitCodeFor(result.Verdict)
}

func runBatch(ctx context.Context, listPath string, f cliFlags, driverOpts []harness.Option, logger log.Logger) int {
	runner := batch.NewRunner(batch.Options{
		SourceDir:   f.sourceDir,
		BuildDir:    f.buildDir,
		RetryBudget: f.retryBudget,
		DriverOpts:  driverOpts,
		DryRun:      f.dryRun,
	})
	names, err := runner.ParseListFile(listPath)
	if err != nil {
		logger.Error("parse list file: %v", err)
		return exitAborted
	}

	var spinner *utils.Spinner
	if f.verbose == 0 {
		spinner = utils.NewSpinner(fmt.Sprintf("running %d tests", len(names)))
		spinner.Start()
	}

	entries, totals, err := runner.Run(ctx, names)

	if spinner != nil {
		spinner.Stop()
	}
	for _, entry := range entries {
		switch {
		case entry.Err != nil:
			fmt.Printf("%s: ERROR %v\n", entry.Name, entry.Err)
		case f.dryRun:
			fmt.Printf("%s: OK (dry run) %s\n", entry.Name, entry.Path)
		default:
			fmt.Printf("%s: %s\n", entry.Name, entry.Summary.Text())
		}
	}
	if f.dryRun {
		if err != nil {
			logger.Error("batch run: %v", err)
			return exitAborted
		}
		for _, entry := range entries {
			if entry.Err != nil {
				return exitFailed
			}
		}
		return exitSuccess
	}
	fmt.Printf("Totals: run=%d failed=%d skipped=%d todo=%d aborted=%d parse_errors=%d\n",
		totals.TestsRun, totals.Failed, totals.Skipped, totals.Todo, totals.Aborted, totals.ParseErrors)

	if err != nil {
		logger.Error("batch run: %v", err)
		return exitAborted
	}
	switch {
	case totals.Aborted > 0:
		return exitAborted
	case totals.Failed > 0:
		return exitFailed
	default:
		return exitSuccess
	}
}

func exitCodeFor(v harness.Verdict) int {
	switch v {
	case harness.Success:
		return exitSuccess
	case harness.Failed:
		return exitFailed
	default:
		return exitAborted
	}
}

func levelFor(verbosity int) log.Level {
	switch {
	case verbosity >= 2:
		return log.LevelDebug
	case verbosity == 1:
		return log.LevelInfo
	default:
		return log.LevelWarn
	}
}

// openLogSink resolves -L's special "stdout"/"stderr" values or opens a
// real file, per spec §6's log file format.
func openLogSink(path string, appendMode bool) (*os.File, func(), error) {
	switch path {
	case "":
		return nil, func() {}, nil
	case "stdout":
		return os.Stdout, func() {}, nil
	case "stderr":
		return os.Stderr, func() {}, nil
	default:
		flags := os.O_CREATE | os.O_WRONLY
		if appendMode {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		f, err := os.OpenFile(path, flags, 0o644)
		if err != nil {
			return nil, func() {}, err
		}
		return f, func() { _ = f.Close() }, nil
	}
}

// propagateEnv sets SOURCE/TAP_SOURCE and BUILD/TAP_BUILD for the child
// when the corresponding flags were given, returning a func that unsets
// them again on harness exit (spec §6).
func propagateEnv(e env.Environment, source, build string) func() {
	var set []string
	if source != "" {
		_ = e.Set("SOURCE", source)
		_ = e.Set("TAP_SOURCE", source)
		set = append(set, "SOURCE", "TAP_SOURCE")
	}
	if build != "" {
		_ = e.Set("BUILD", build)
		_ = e.Set("TAP_BUILD", build)
		set = append(set, "BUILD", "TAP_BUILD")
	}
	return func() {
		for _, k := range set {
			_ = e.Unset(k)
		}
	}
}

func applyFileDefaults(f *cliFlags) {
	var fd fileDefaults
	loader := config.NewFileLoader("")
	yamlPath, err := filepath.Abs(".tapctl.yaml")
	if err != nil {
		return
	}
	jsonPath, err := filepath.Abs(".tapctl.json")
	if err != nil {
		return
	}
	if _, err := loader.Load([]string{yamlPath, jsonPath}, &fd); err != nil {
		return
	}
	if f.sourceDir == "" {
		f.sourceDir = fd.Source
	}
	if f.buildDir == "" {
		f.buildDir = fd.Build
	}
	if !f.captureStderr {
		f.captureStderr = fd.CaptureStderr
	}
	if f.retryBudget == 0 {
		f.retryBudget = fd.Retry
	}
	if f.timeoutSecs == 0 {
		f.timeoutSecs = fd.TimeoutSecs
	}
}

func auditConfig() *utils.AuditConfig {
	cfg := utils.DefaultAuditConfig()
	cfg.Enabled = true
	cfg.DatabasePath = ".tapctl/audit.db"
	return &cfg
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func showUsage(fs *flag.FlagSet) {
	fmt.Fprintln(os.Stderr, banner)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage: tapctl [options] <test-file-or-list>")
	fmt.Fprintln(os.Stderr)
	w := tabwriter.NewWriter(os.Stderr, 0, 4, 2, ' ', 0)
	fs.VisitAll(func(fl *flag.Flag) {
		fmt.Fprintf(w, "  -%s\t%s\n", fl.Name, fl.Usage)
	})
	_ = w.Flush()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Exit codes: 0 success, 1 aborted, 2 some tests failed.")
}
