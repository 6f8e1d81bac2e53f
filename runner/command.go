// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/cosiner/argv"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp/syscheck/op"
)

// waitDelay bounds how long Run waits for output pipes to close after the process is killed,
// e.g. when a timed-out command left children behind holding stdout.
const waitDelay = 2 * time.Second

var _ Runner = Command{}

// CommandConfig is the configuration for a Command runner.
type CommandConfig struct {
	// Command is the command line to run, including arguments.
	Command string

	// Timeout bounds how long the command may run. Zero means no timeout.
	Timeout time.Duration
}

// Command runs a single binary with arguments and returns its standard output as text.
type Command struct {
	ctx context.Context

	Command string  `json:"command"`
	Timeout Timeout `json:"timeout"`
}

// NewCommand provides a runner for bin commands
func NewCommand(cfg CommandConfig) (*Command, error) {
	return NewCommandWithContext(context.Background(), cfg)
}

// NewCommandWithContext provides a runner for bin commands that will be canceled along with ctx.
func NewCommandWithContext(ctx context.Context, cfg CommandConfig) (*Command, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(cfg.Command) == "" {
		return nil, CommandConfigError{
			config: cfg,
			err:    errors.New("command must not be empty"),
		}
	}
	if cfg.Timeout < 0 {
		return nil, CommandConfigError{
			config: cfg,
			err:    fmt.Errorf("timeout must be a nonnegative, timeout='%s'", cfg.Timeout.String()),
		}
	}

	return &Command{
		ctx:     ctx,
		Command: cfg.Command,
		Timeout: Timeout(cfg.Timeout),
	}, nil
}

func (c Command) ID() string {
	return c.Command
}

// Run executes the Command. The op's status tells a completed run (Success, or Unknown when the command exited
// non-zero) apart from one that never started (Skip when the binary is missing, Fail otherwise) and from one that
// ran out of time (Timeout) or was interrupted (Canceled).
func (c Command) Run() op.Op {
	startTime := time.Now()

	if c.ctx == nil {
		c.ctx = context.Background()
	}
	if err := c.ctx.Err(); err != nil {
		return c.ctxDone(err, nil, startTime)
	}

	p, err := parseCommand(c.Command)
	if err != nil {
		return op.New(c.ID(), nil, op.Fail, err, Params(c), startTime, time.Now())
	}

	// Exit early with a wrapped error if the command isn't found on this system
	path, err := exec.LookPath(p.cmd)
	if err != nil {
		return op.New(c.ID(), nil, op.Skip, CommandNotFoundError{command: p.cmd, err: err}, Params(c), startTime, time.Now())
	}

	runCtx := c.ctx
	if 0 < c.Timeout {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(c.ctx, time.Duration(c.Timeout))
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, path, p.args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	hclog.L().Trace("runner.Command.Run()", "command", c.Command, "timeout", c.Timeout.String())
	cmdErr := cmd.Run()

	text := strings.TrimRight(stdout.String(), "\r\n")

	if ctxErr := runCtx.Err(); ctxErr != nil {
		return c.ctxDone(ctxErr, text, startTime)
	}

	if cmdErr != nil {
		execErr := CommandExecError{command: c.Command, stderr: strings.TrimSpace(stderr.String()), err: cmdErr}

		var exitErr *exec.ExitError
		if errors.As(cmdErr, &exitErr) {
			return op.New(c.ID(), text, op.Unknown, execErr, Params(c), startTime, time.Now())
		}
		return op.New(c.ID(), nil, op.Fail, execErr, Params(c), startTime, time.Now())
	}

	return op.New(c.ID(), text, op.Success, nil, Params(c), startTime, time.Now())
}

// ctxDone produces the op for a run that ended because its context was done. result holds whatever output the
// command managed to produce, if any.
func (c Command) ctxDone(err error, result any, startTime time.Time) op.Op {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		timeoutErr := CommandTimeoutError{command: c.Command, timeout: time.Duration(c.Timeout), err: err}
		o := op.NewTimeout(c.ID(), timeoutErr, Params(c), startTime)
		o.Result = result
		return o
	case errors.Is(err, context.Canceled):
		return op.NewCancel(c.ID(), err, Params(c), startTime)
	default:
		return op.New(c.ID(), result, op.Unknown, err, Params(c), startTime, time.Now())
	}
}

type parsedCommand struct {
	cmd  string
	args []string
}

func parseCommand(command string) (parsedCommand, error) {
	// Argv returns a [][]string, where each outer slice represents commands split by '|' and the inner slices
	// have the command at element 0 and any arguments to the command in the remaining elements.
	p, err := argv.Argv(command, nil, nil)
	if err != nil {
		e := CommandParseError{
			command: command,
			err:     err,
		}
		return parsedCommand{}, e
	}

	// Only a single command is supported, without piping from one to the next. Pipes inside quoted arguments
	// (e.g. a powershell -Command string) are part of that argument and are fine.
	if len(p) > 1 {
		e := CommandParseError{
			command: command,
			err:     fmt.Errorf("piped commands are unsupported, command=%s", command),
		}
		return parsedCommand{}, e
	}
	if len(p) == 0 || len(p[0]) == 0 {
		e := CommandParseError{
			command: command,
			err:     errors.New("no command found"),
		}
		return parsedCommand{}, e
	}

	return parsedCommand{cmd: p[0][0], args: p[0][1:]}, nil
}

var _ error = CommandConfigError{}

type CommandConfigError struct {
	config CommandConfig
	err    error
}

func (e CommandConfigError) Error() string {
	return fmt.Sprintf("invalid Command configuration, command=%s, error=%s", e.config.Command, e.err.Error())
}

func (e CommandConfigError) Unwrap() error {
	return e.err
}

var _ error = CommandParseError{}

type CommandParseError struct {
	command string
	err     error
}

func (e CommandParseError) Error() string {
	return fmt.Sprintf("error parsing command, command=%s, error=%s", e.command, e.err.Error())
}

func (e CommandParseError) Unwrap() error {
	return e.err
}

var _ error = CommandNotFoundError{}

type CommandNotFoundError struct {
	command string
	err     error
}

func (e CommandNotFoundError) Error() string {
	return fmt.Sprintf("%s: command not found", e.command)
}

func (e CommandNotFoundError) Unwrap() error {
	return e.err
}

var _ error = CommandExecError{}

type CommandExecError struct {
	command string
	stderr  string
	err     error
}

func (e CommandExecError) Error() string {
	if e.stderr == "" {
		return fmt.Sprintf("exec error, command=%s, error=%s", e.command, e.err.Error())
	}
	return fmt.Sprintf("exec error, command=%s, error=%s, stderr=%s", e.command, e.err.Error(), e.stderr)
}

func (e CommandExecError) Unwrap() error {
	return e.err
}

var _ error = CommandTimeoutError{}

type CommandTimeoutError struct {
	command string
	timeout time.Duration
	err     error
}

func (e CommandTimeoutError) Error() string {
	return fmt.Sprintf("command timed out after %s, command=%s", e.timeout, e.command)
}

func (e CommandTimeoutError) Unwrap() error {
	return e.err
}
