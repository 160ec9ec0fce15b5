// Package utils provides general-purpose utility functions for tapctl.
//
// This package includes:
//   - Audit logging of CLI invocations to a local SQLite database
//   - Terminal spinners and progress trees for batch-mode output
//
// # Audit Logging
//
// When audit logging is enabled (it is off by default), each tapctl
// invocation is recorded via the audit logger:
//
//	cfg := utils.DefaultAuditConfig()
//	logger := utils.NewAuditLogger(&cfg)
//	defer logger.Close()
//	_ = logger.LogEvent(&utils.AuditEvent{Command: "tapctl", Args: os.Args[1:]})
//
// # Spinners
//
// Batch mode shows progress with a spinner when verbosity is at its
// default level:
//
//	sp := utils.NewSpinner("running 12 tests")
//	sp.Start()
//	defer sp.Stop()
package utils
