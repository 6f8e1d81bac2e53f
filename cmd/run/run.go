// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package run

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp/syscheck/cmd/help"
	"github.com/hashicorp/syscheck/cmd/returns"
	"github.com/hashicorp/syscheck/config"
	"github.com/hashicorp/syscheck/diaglog"
	"github.com/hashicorp/syscheck/op"
	"github.com/hashicorp/syscheck/progress"
	"github.com/hashicorp/syscheck/stage"
)

const envLogLevel = "LOG_LEVEL"

// helpText is the short usage guidance shown under --help.
const helpText = `Usage: syscheck run

Collects host identity, hardware and OS inventory, network reachability, resource usage, directory membership,
health sensors and local accounts, and writes them to a timestamped log file. The command takes no options; use
the environment variables below to adjust it.
`

// synopsis is provided in the help output of the enclosing scope, for example `syscheck --help`.
const synopsis = `Run the host diagnostic checks and write the log file`

var _ cli.Command = &cmd{}

type cmd struct {
	ui    cli.Ui
	flags *flag.FlagSet

	getenv  func(string) string
	goos    string
	now     func() time.Time
	console io.Writer

	// sources overrides what the stages read; nil means the real host.
	sources stage.Sources
}

func (c *cmd) init() {
	// flag.ContinueOnError allows flag.Parse to return an error if one comes up, rather than doing an `os.Exit(2)`
	// on its own.
	c.flags = flag.NewFlagSet("run", flag.ContinueOnError)

	// When invalid flags are provided, Go will output a usage message of its own. If we direct our flag set to
	// io.Discard, it will effectively be hidden, allowing us to print our own Help message upon failure.
	c.flags.SetOutput(io.Discard)
}

// New produces a new *cmd pointer, initialized for use in a CLI application.
func New(ui cli.Ui) *cmd {
	c := &cmd{
		ui:      ui,
		getenv:  os.Getenv,
		goos:    runtime.GOOS,
		now:     time.Now,
		console: os.Stderr,
	}
	c.init()
	return c
}

// CommandFactory provides a cli.CommandFactory that will produce an appropriately-initiated *cmd.
func CommandFactory(ui cli.Ui) cli.CommandFactory {
	return func() (cli.Command, error) {
		return New(ui), nil
	}
}

// Help provides help text to users who pass in the --help flag or who enter invalid options.
func (c *cmd) Help() string {
	return help.Usage(helpText, envVars)
}

// Synopsis provides a brief description of the command, for inclusion in the application's primary --help.
func (c *cmd) Synopsis() string {
	return synopsis
}

// Run executes the command. Failing checks do not change the return code; only a bad invocation, a bad
// configuration or an unwritable log file do.
func (c *cmd) Run(args []string) int {
	if err := c.parseFlags(args); err != nil {
		// Output the specific error to help the user understand what went wrong.
		c.ui.Warn(err.Error())
		// Since there was an issue in input, let's show our Help to try and assist the user.
		c.ui.Warn(c.Help())
		return returns.FlagParseError
	}

	l := configureLogging("syscheck", c.getenv)

	cfg, err := config.Load(c.getenv, c.goos)
	if err != nil {
		c.ui.Error(fmt.Sprintf("Failed to load configuration: %s", err))
		return returns.ConfigError
	}
	l.Debug("configuration loaded", "config", hclog.Fmt("%+v", cfg))

	hostname, err := stage.Hostname()
	if err != nil {
		c.ui.Error(fmt.Sprintf("Unable to determine the computer name: %s", err))
		return returns.SetupError
	}

	start := c.now()
	sink, err := diaglog.Open(diaglog.SinkConfig{
		Dir:        cfg.LogDir,
		Hostname:   hostname,
		Time:       start,
		Redactions: cfg.Redactions,
	})
	if err != nil {
		c.ui.Error(fmt.Sprintf("Unable to create the log file: %s", err))
		return returns.SetupError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc := stage.NewContext(ctx, stage.ContextConfig{
		Config:   cfg,
		GOOS:     c.goos,
		Hostname: hostname,
		Username: stage.Username(c.getenv),
		Start:    start,
		Sources:  c.sources,
	})
	rc.LogPath = sink.Path()

	p := stage.Pipeline{
		Stages:       stage.All(),
		Sink:         sink,
		Progress:     progress.New(c.ui),
		Console:      c.console,
		ConsoleLevel: stageConsoleLevel(c.getenv, l),
		Parallel:     cfg.Parallel,
	}
	ops, runErr := p.Run(rc)
	if runErr != nil {
		l.Info("some checks reported errors, see the log file for details", "error", runErr)
	}
	if counts, err := op.StatusCounts(ops); err == nil {
		l.Debug("run complete", "statuses", counts, "interrupted", ctx.Err() != nil)
	}

	code := returns.Success
	if err := sink.Close(); err != nil {
		l.Error("log file is incomplete", "path", sink.Path(), "error", err)
		code = returns.RunError
	}

	c.ui.Output(fmt.Sprintf("Log file has been saved to: %s", sink.Path()))
	return code
}

// stageConsoleLevel is the level at which stage output is echoed to the console. Stage output goes to the log
// file, so the console stays limited to progress lines unless LOG_LEVEL asks for more.
func stageConsoleLevel(getenv func(string) string, l hclog.Logger) hclog.Level {
	if getenv(envLogLevel) == "" {
		return hclog.Off
	}
	return l.GetLevel()
}

// configureLogging takes a logger name, sets the default configuration, grabs the LOG_LEVEL from our ENV vars, and
// returns a configured and usable logger.
func configureLogging(loggerName string, getenv func(string) string) hclog.Logger {
	// Create logger, set default and log level
	appLogger := hclog.New(&hclog.LoggerOptions{
		Name:  loggerName,
		Color: hclog.AutoColor,
		Level: hclog.Warn,
	})
	hclog.SetDefault(appLogger)
	if logStr := getenv(envLogLevel); logStr != "" {
		if level := hclog.LevelFromString(logStr); level != hclog.NoLevel {
			appLogger.SetLevel(level)
			appLogger.Debug("Logger configuration change", envLogLevel, hclog.Fmt("%s", logStr))
		}
	}
	return hclog.Default()
}

func (c *cmd) parseFlags(args []string) error {
	if err := c.flags.Parse(args); err != nil {
		return err
	}
	if c.flags.NArg() > 0 {
		return fmt.Errorf("run takes no arguments, got %q", c.flags.Args())
	}
	return nil
}
