// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package returns includes a set of semantic return codes that syscheck commands use to indicate their success or
// failure, so that callers can tell a bad invocation from a host that could not be written to.
//
// Groups of errors are numbered using an offset of iota, so that new errors can be added more easily, with lower
// risk of accidental duplication of return codes.
package returns

// Success indicates a successful command execution. A run whose checks reported errors still succeeds: the errors
// are in the log file.
const Success int = 0

// The following error group is intended for issues within a command's execution.
const (
	// FlagParseError indicates that a command was unable to successfully parse the flags/arguments provided to it.
	FlagParseError int = iota + 16

	// ConfigError indicates that the configuration file or environment could not be loaded.
	ConfigError

	// RunError indicates that the log file was created but could not be completely written.
	RunError

	// SetupError is returned when the log directory or file cannot be created, before any check runs.
	SetupError
)
