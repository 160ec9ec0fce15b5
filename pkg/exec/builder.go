package exec

import (
	"time"
)

// Builder provides a fluent API for constructing executor chains
type Builder struct {
	base         *Base
	validators   []ValidatingOption
	timeout      *TimeoutExecutor
	envFilter    *EnvFilteringExecutor
	useValidate  bool
	useTimeout   bool
	useEnvFilter bool
}

// NewBuilder creates a new executor builder
func NewBuilder() *Builder {
	return &Builder{
		base: NewBase(),
	}
}

// WithWorkingDirectory sets the base working directory
func (b *Builder) WithWorkingDirectory(dir string) *Builder {
	b.base.WorkingDir = dir
	return b
}

// WithVerbose enables verbose logging
func (b *Builder) WithVerbose(verbose bool) *Builder {
	b.base.Verbose = verbose
	return b
}

// WithBaseEnv sets additional base environment variables
func (b *Builder) WithBaseEnv(env []string) *Builder {
	b.base.Env = env
	return b
}

// WithValidation adds command/argument validation
func (b *Builder) WithValidation(opts ...ValidatingOption) *Builder {
	b.useValidate = true
	b.validators = append(b.validators, opts...)
	return b
}

// WithTimeout adds timeout support with default timeout
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.useTimeout = true
	b.timeout = &TimeoutExecutor{
		DefaultTimeout: timeout,
	}
	return b
}

// WithAdaptiveTimeout adds timeout support with per-command timeouts
func (b *Builder) WithAdaptiveTimeout() *Builder {
	b.useTimeout = true
	b.timeout = &TimeoutExecutor{
		DefaultTimeout:  30 * time.Second,
		TimeoutResolver: NewAdaptiveTimeoutResolver(),
	}
	return b
}

// WithTimeoutResolver adds timeout support with custom resolver
func (b *Builder) WithTimeoutResolver(resolver TimeoutResolver) *Builder {
	b.useTimeout = true
	b.timeout = &TimeoutExecutor{
		DefaultTimeout:  30 * time.Second,
		TimeoutResolver: resolver,
	}
	return b
}

// WithEnvFiltering adds environment variable filtering
func (b *Builder) WithEnvFiltering(opts ...EnvFilterOption) *Builder {
	b.useEnvFilter = true
	b.envFilter = &EnvFilteringExecutor{
		SensitivePrefixes: DefaultSensitivePrefixes,
		Whitelist:         DefaultEnvWhitelist,
	}
	for _, opt := range opts {
		opt(b.envFilter)
	}
	return b
}

// WithDryRun enables dry run mode (log commands without executing)
func (b *Builder) WithDryRun(dryRun bool) *Builder {
	b.base.DryRun = dryRun
	return b
}

// Build constructs the executor chain
// The order of decorators from innermost to outermost is:
// Base -> EnvFilter -> Validation -> Timeout
// EnvFilter is left out when dry run is set: it starts processes itself
// instead of calling Base, which would bypass Base's dry-run check.
func (b *Builder) Build() FullExecutor {
	var executor FullExecutor = b.base

	// Apply env filtering first (closest to execution)
	if b.useEnvFilter && !b.base.DryRun {
		b.envFilter.wrapped = executor
		executor = b.envFilter
	}

	// Apply validation
	if b.useValidate {
		executor = NewValidatingExecutor(executor, b.validators...)
	}

	// Apply timeout last (outermost - controls total time)
	if b.useTimeout {
		b.timeout.wrapped = executor
		executor = b.timeout
	}

	return executor
}

// Secure creates an executor with common security settings:
// - Validation
// - Environment filtering
// - Adaptive timeouts
func Secure() FullExecutor {
	return NewBuilder().
		WithValidation().
		WithEnvFiltering().
		WithAdaptiveTimeout().
		Build()
}

// Simple creates a basic executor without any decorators
func Simple() Executor {
	return NewBase()
}
