// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package run

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/syscheck/cmd/returns"
	"github.com/hashicorp/syscheck/config"
	"github.com/hashicorp/syscheck/diaglog"
	"github.com/hashicorp/syscheck/op"
	"github.com/hashicorp/syscheck/runner"
	"github.com/hashicorp/syscheck/runner/host"
	"github.com/hashicorp/syscheck/stage"
)

type cannedRunner struct {
	id string
	o  op.Op
}

func (r cannedRunner) ID() string { return r.id }
func (r cannedRunner) Run() op.Op { return r.o }

var errMissing = errors.New("command not found")

// quietHost has CPU at 42% and memory at 67%, no battery, no sensors, and none of the inventory commands.
type quietHost struct{}

var _ stage.Sources = quietHost{}

func skipped(id string) runner.Runner {
	return cannedRunner{id: id, o: op.Op{Identifier: id, Status: op.Skip, Error: errMissing}}
}

func succeeded(id string, result any) runner.Runner {
	return cannedRunner{id: id, o: op.Op{Identifier: id, Status: op.Success, Result: result}}
}

func (quietHost) Command(_ context.Context, command string, _ time.Duration) (runner.Runner, error) {
	return skipped(command), nil
}
func (quietHost) Info(context.Context) runner.Runner {
	return succeeded("info", host.InfoStat{OS: "linux"})
}
func (quietHost) Firmware(t host.FirmwareTable) runner.Runner {
	return skipped("firmware " + string(t))
}
func (quietHost) CPU(context.Context, time.Duration) runner.Runner {
	return succeeded("cpu", host.CPUUsage{Percent: 42})
}
func (quietHost) Memory(context.Context) runner.Runner {
	return succeeded("memory", host.MemoryUsage{UsedPercent: 67})
}
func (quietHost) Processes() runner.Runner { return succeeded("process count", 1) }
func (quietHost) Disk(context.Context, string) runner.Runner {
	return succeeded("disk", host.DiskUsage{Path: "/", Total: 1 << 30, UsedPercent: 10})
}
func (quietHost) Temperature(context.Context) runner.Runner { return skipped("temperature") }
func (quietHost) Battery() runner.Runner                    { return skipped("battery") }

func newTestCmd(t *testing.T, env map[string]string, now time.Time) (*cmd, *cli.MockUi) {
	t.Helper()
	ui := cli.NewMockUi()
	c := New(ui)
	c.getenv = func(k string) string { return env[k] }
	c.goos = "linux"
	c.now = func() time.Time { return now }
	c.console = io.Discard
	c.sources = quietHost{}
	return c, ui
}

func TestRun_WritesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does", "not", "exist")
	env := map[string]string{config.EnvLogDir: dir}
	first := time.Date(2024, 5, 1, 10, 11, 12, 0, time.Local)

	hostname, err := stage.Hostname()
	require.NoError(t, err)

	var paths []string
	for _, now := range []time.Time{first, first.Add(time.Second)} {
		c, ui := newTestCmd(t, env, now)
		require.Equal(t, returns.Success, c.Run(nil))

		path := diaglog.Path(dir, hostname, now)
		paths = append(paths, path)

		out := ui.OutputWriter.String()
		assert.Contains(t, out, "Status 10%: Logging Environment Information...")
		assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "Log file has been saved to: "+mustAbs(t, path)))

		bts, err := os.ReadFile(path)
		require.NoError(t, err)
		contents := string(bts)
		assert.Contains(t, contents, " - CPU Usage: 42%\n")
		assert.Contains(t, contents, " - Memory Usage: 67%\n")
		assert.Contains(t, contents, " - ERROR - Error fetching BIOS Information: ")
		assert.NotContains(t, contents, "Battery")
		assert.Less(t, strings.Index(contents, "Local Groups"), 0, "skipped commands do not log a section")
		assert.Less(t, strings.Index(contents, "CPU Usage"), strings.Index(contents, "Disk Usage"))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.NotEqual(t, paths[0], paths[1])
}

func TestRun_ConsoleEcho(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel string
		echoed   bool
	}{
		{name: "stage output stays in the log file by default", echoed: false},
		{name: "LOG_LEVEL echoes stage output", logLevel: "error", echoed: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := map[string]string{config.EnvLogDir: t.TempDir()}
			if tc.logLevel != "" {
				env[envLogLevel] = tc.logLevel
			}
			c, _ := newTestCmd(t, env, time.Now())
			var console bytes.Buffer
			c.console = &console

			require.Equal(t, returns.Success, c.Run(nil))
			if tc.echoed {
				assert.Contains(t, console.String(), "Error fetching BIOS Information")
			} else {
				assert.Empty(t, console.String())
			}
		})
	}
}

func Test_stageConsoleLevel(t *testing.T) {
	l := hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.Warn})

	assert.Equal(t, hclog.Off, stageConsoleLevel(func(string) string { return "" }, l))
	assert.Equal(t, hclog.Warn, stageConsoleLevel(func(string) string { return "warn" }, l))
}

func TestRun_RejectsArguments(t *testing.T) {
	c, ui := newTestCmd(t, nil, time.Now())
	assert.Equal(t, returns.FlagParseError, c.Run([]string{"extra"}))
	assert.Contains(t, ui.ErrorWriter.String(), "run takes no arguments")

	c, _ = newTestCmd(t, nil, time.Now())
	assert.Equal(t, returns.FlagParseError, c.Run([]string{"-verbose"}))
}

func TestRun_ConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syscheck.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`command_timeout = "soon"`), 0644))

	c, ui := newTestCmd(t, map[string]string{config.EnvConfigPath: path}, time.Now())
	assert.Equal(t, returns.ConfigError, c.Run(nil))
	assert.Contains(t, ui.ErrorWriter.String(), "Failed to load configuration")
}

func TestRun_SetupError(t *testing.T) {
	// A regular file where the log directory should be.
	blocker := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	c, ui := newTestCmd(t, map[string]string{config.EnvLogDir: blocker}, time.Now())
	assert.Equal(t, returns.SetupError, c.Run(nil))
	assert.Contains(t, ui.ErrorWriter.String(), "Unable to create the log file")
	assert.NotContains(t, ui.OutputWriter.String(), "Status 10%")
}

func TestHelp(t *testing.T) {
	c := New(cli.NewMockUi())
	h := c.Help()
	assert.Contains(t, h, "Usage: syscheck run")
	assert.Contains(t, h, config.EnvConfigPath)
	assert.Contains(t, h, config.EnvLogDir)
	assert.Contains(t, h, "LOG_LEVEL")
	assert.NotEmpty(t, c.Synopsis())
}

func mustAbs(t *testing.T, path string) string {
	t.Helper()
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	return abs
}
