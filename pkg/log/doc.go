// Package log provides logging infrastructure for tapctl's CLI and harness.
//
// # Logger Types
//
// Two logger implementations are available:
//   - CLILogger: Colored terminal output with status indicators and headers
//   - StructuredLogger: Structured logging with fields and context
//
// # Usage
//
// Use package-level functions for convenience:
//
//	log.Info("Building %s", target)
//	log.Error("Build failed: %v", err)
//	log.Success("Build completed in %v", duration)
//
// Or create a logger with fields:
//
//	logger := log.Default().WithFields(log.Fields{
//	    "module": moduleName,
//	    "target": target,
//	})
//	logger.Info("Starting build")
//
// # Log Levels
//
// Supported levels: Debug, Info, Warn, Error, Fatal
//
// Set the log level programmatically:
//
//	log.SetLevel(log.LevelDebug)
//
// Or set the DEBUG or VERBOSE environment variable to any non-empty value;
// the default logger then starts at LevelDebug. No other level can be
// chosen through the environment.
//
// # CLI Features
//
// The CLILogger provides additional features for terminal output:
//   - Colored output (respects NO_COLOR and CI environment variables)
//   - Spinner methods (StartSpinner, StopSpinner, UpdateSpinner), which do
//     nothing in CLIAdapter
//   - Success/Fail status indicators
//   - Header formatting for section organization
package log
