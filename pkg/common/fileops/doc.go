// Package fileops provides secure file operation utilities for tapctl,
// with consistent permission handling and safety checks.
//
// # Permissions
//
// Predefined permission constants for secure file operations:
//
//	fileops.PermFile           // 0644 - Standard file permissions
//	fileops.PermFileExecutable // 0755 - Executable file permissions
//	fileops.PermDir            // 0755 - Directory permissions
//	fileops.PermDirPrivate     // 0700 - Private directory permissions
//
// # File Operations
//
// Safe file operations with proper error handling:
//
//	// Write a file (a plain write, not atomic)
//	err := fileops.WriteFile(path, data, fileops.PermFile)
//
//	// Copy a file
//	err := fileops.Copy(src, dst)
//
//	// Ensure directory exists
//	err := fileops.MkdirAll(path, fileops.PermDir)
//
// # Security
//
// The file operations include:
//
//   - Rejection of ".." in paths passed to ReadFile and Copy; the other
//     operations do not validate paths
//   - Predefined permission constants for consistent modes
//   - Atomic writes through SafeFileOperator.WriteFileAtomic and the
//     WriteJSONSafe/WriteYAMLSafe helpers
//
// # Integration
//
// This package is used throughout tapctl for consistent file handling,
// ensuring security best practices are followed for all file operations.
package fileops
