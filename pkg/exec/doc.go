// Package exec provides command execution utilities with security
// and reliability features for tapctl's test-binary spawn path.
//
// # Executor Interface
//
// The package defines composable executor interfaces:
//   - Executor: Basic command execution
//   - ExecutorWithEnv: Execution with custom environment
//   - ExecutorWithDir: Execution in specific directory
//   - StreamingExecutor: Real-time output streaming
//   - FullExecutor: Combines all capabilities
//
// # Decorator Pattern
//
// Executors can be composed using decorators:
//
//	base := exec.NewBase()
//	filtered := exec.NewEnvFilteringExecutor(base)
//	final := exec.NewValidatingExecutor(filtered)
//
// EnvFilteringExecutor starts processes itself and does not call the
// executor it wraps, so it goes innermost, directly around Base, as
// Builder.Build places it.
//
// # Security Features
//
// The package includes:
//   - Argument validation against injection patterns
//   - Sensitive environment variable filtering
//   - Path traversal prevention
//
// # Usage
//
// For basic command execution:
//
//	executor := exec.NewBase()
//	err := executor.Execute(ctx, "go", "build", "./...")
//
// For secured execution with validation, env filtering and adaptive
// timeouts (batch mode's -n/dry-run preflight in internal/batch.Runner
// builds its own chain with NewBuilder instead):
//
//	executor := exec.Secure()
//	output, err := executor.ExecuteOutput(ctx, "./bin/example.test", "-test.v")
package exec
