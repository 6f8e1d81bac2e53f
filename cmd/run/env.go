// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package run

import (
	"github.com/hashicorp/syscheck/cmd/help"
	"github.com/hashicorp/syscheck/config"
)

const (
	configUsageText   = "Path to an HCL configuration file (.hcl). Sets log_dir, command_timeout, trace_timeout, cpu_interval, disk_path, parallel and redact blocks."
	logDirUsageText   = "Directory the log file is written to, created if missing. Overrides log_dir. Defaults to C:/logs on Windows and ~/logs elsewhere."
	logLevelUsageText = "Level of console logging: trace, debug, info, warn or error. Defaults to warn. The log file always receives info and above."
)

var envVars = []help.EnvVar{
	{Name: config.EnvConfigPath, Usage: configUsageText},
	{Name: config.EnvLogDir, Usage: logDirUsageText},
	{Name: envLogLevel, Usage: logLevelUsageText},
}
