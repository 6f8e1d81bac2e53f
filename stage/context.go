// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"context"
	"os"
	"os/user"
	"time"

	"github.com/hashicorp/syscheck/config"
	"github.com/hashicorp/syscheck/runner"
	"github.com/hashicorp/syscheck/runner/host"
)

// Context is everything a stage needs to know about the run. It is built once and shared by all stages, which
// must treat it as read-only.
type Context struct {
	// Ctx is canceled when the run is interrupted.
	Ctx context.Context

	Hostname string
	Username string
	Start    time.Time
	LogPath  string

	GOOS     string
	Commands Commands

	CommandTimeout time.Duration
	TraceTimeout   time.Duration
	CPUInterval    time.Duration
	DiskPath       string

	Sources Sources
}

// ContextConfig holds the inputs NewContext does not discover itself.
type ContextConfig struct {
	Config   config.Config
	GOOS     string
	Hostname string
	Username string
	Start    time.Time
	Sources  Sources
}

// NewContext builds a run Context from cfg. Sources defaults to HostSources.
func NewContext(ctx context.Context, cfg ContextConfig) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Now()
	}
	if cfg.Sources == nil {
		cfg.Sources = HostSources{}
	}

	commandTimeout := cfg.Config.CommandTimeout
	if commandTimeout <= 0 {
		commandTimeout = config.DefaultCommandTimeout
	}
	traceTimeout := cfg.Config.TraceTimeout
	if traceTimeout <= 0 {
		traceTimeout = config.DefaultTraceTimeout
	}

	return &Context{
		Ctx:            ctx,
		Hostname:       cfg.Hostname,
		Username:       cfg.Username,
		Start:          cfg.Start,
		GOOS:           cfg.GOOS,
		Commands:       CommandsFor(cfg.GOOS, cfg.Hostname),
		CommandTimeout: commandTimeout,
		TraceTimeout:   traceTimeout,
		CPUInterval:    cfg.Config.CPUInterval,
		DiskPath:       cfg.Config.DiskPath,
		Sources:        cfg.Sources,
	}
}

// Hostname returns the local computer name.
func Hostname() (string, error) {
	return os.Hostname()
}

// Username returns the name of the user running the check: USERNAME (set on Windows), then USER, then the
// account database. It returns "" when none of them knows.
func Username(getenv func(string) string) string {
	for _, key := range []string{"USERNAME", "USER"} {
		if v := getenv(key); v != "" {
			return v
		}
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

// Sources builds the runners stages collect from. HostSources reads the real host; tests substitute fakes.
type Sources interface {
	Command(ctx context.Context, command string, timeout time.Duration) (runner.Runner, error)
	Info(ctx context.Context) runner.Runner
	Firmware(table host.FirmwareTable) runner.Runner
	CPU(ctx context.Context, interval time.Duration) runner.Runner
	Memory(ctx context.Context) runner.Runner
	Processes() runner.Runner
	Disk(ctx context.Context, path string) runner.Runner
	Temperature(ctx context.Context) runner.Runner
	Battery() runner.Runner
}

var _ Sources = HostSources{}

// HostSources reads the machine syscheck runs on.
type HostSources struct{}

func (s HostSources) Command(ctx context.Context, command string, timeout time.Duration) (runner.Runner, error) {
	return runner.NewCommandWithContext(ctx, runner.CommandConfig{
		Command: command,
		Timeout: timeout,
	})
}

func (s HostSources) Info(ctx context.Context) runner.Runner {
	return host.NewInfo(ctx)
}

func (s HostSources) Firmware(table host.FirmwareTable) runner.Runner {
	return host.NewFirmware(table)
}

func (s HostSources) CPU(ctx context.Context, interval time.Duration) runner.Runner {
	return host.NewCPU(ctx, interval)
}

func (s HostSources) Memory(ctx context.Context) runner.Runner {
	return host.NewMemory(ctx)
}

func (s HostSources) Processes() runner.Runner {
	return host.NewProcessCount()
}

func (s HostSources) Disk(ctx context.Context, path string) runner.Runner {
	return host.NewDisk(ctx, path)
}

func (s HostSources) Temperature(ctx context.Context) runner.Runner {
	return host.NewTemperature(ctx, host.CoreTempGroup)
}

func (s HostSources) Battery() runner.Runner {
	return host.NewBattery()
}
