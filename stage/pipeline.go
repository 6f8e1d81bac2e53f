// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"io"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp/syscheck/diaglog"
	"github.com/hashicorp/syscheck/op"
	"github.com/hashicorp/syscheck/progress"
)

// Sink receives every stage's log entries. diaglog.Sink is the implementation used for real runs.
type Sink interface {
	hclog.SinkAdapter
	diaglog.EntryWriter
}

// Pipeline runs stages in order against one Sink.
type Pipeline struct {
	Stages   []Stage
	Sink     Sink
	Progress *progress.Reporter

	// Console and ConsoleLevel control what stage loggers echo to the terminal.
	Console      io.Writer
	ConsoleLevel hclog.Level

	// Parallel runs all stages at once. Each stage logs into its own buffer and the buffers are written to the
	// Sink in stage order, so the file reads the same as a sequential run.
	Parallel bool
}

// Run executes every stage and returns one op per stage, in stage order. The error aggregates the failures of
// all stages; a failing stage never stops the ones after it.
func (p Pipeline) Run(rc *Context) ([]op.Op, error) {
	var ops []op.Op
	if p.Parallel {
		ops = p.runParallel(rc)
	} else {
		ops = p.runSequential(rc)
	}

	var errs *multierror.Error
	for i, o := range ops {
		if o.Error != nil {
			errs = multierror.Append(errs, StageError{stage: p.Stages[i].Name, err: o.Error})
		}
	}
	return ops, errs.ErrorOrNil()
}

func (p Pipeline) logger(s Stage, sink hclog.SinkAdapter) hclog.InterceptLogger {
	return diaglog.NewLogger("syscheck."+s.Name, p.Console, p.ConsoleLevel, sink)
}

func (p Pipeline) begin(s Stage) {
	p.Progress.Report(s.Begin.Percent, s.Begin.Message)
}

func (p Pipeline) end(s Stage) {
	if s.End != nil {
		p.Progress.Report(s.End.Percent, s.End.Message)
	}
}

func (p Pipeline) runSequential(rc *Context) []op.Op {
	ops := make([]op.Op, 0, len(p.Stages))
	for _, s := range p.Stages {
		p.begin(s)
		ops = append(ops, Run(rc, s, p.logger(s, p.Sink)))
		p.end(s)
	}
	return ops
}

// runParallel starts every stage at once and commits each stage's buffered entries as soon as it and all stages
// before it are done. Progress is reported at commit time so the console keeps stage order too.
func (p Pipeline) runParallel(rc *Context) []op.Op {
	ops := make([]op.Op, len(p.Stages))
	buffers := make([]*diaglog.Buffer, len(p.Stages))
	done := make([]chan struct{}, len(p.Stages))

	var wg sync.WaitGroup
	wg.Add(len(p.Stages))
	for i, s := range p.Stages {
		buffers[i] = diaglog.NewBuffer()
		done[i] = make(chan struct{})
		go func(i int, s Stage) {
			defer wg.Done()
			defer close(done[i])
			ops[i] = Run(rc, s, p.logger(s, buffers[i]))
		}(i, s)
	}

	for i, s := range p.Stages {
		<-done[i]
		p.begin(s)
		if err := buffers[i].FlushTo(p.Sink); err != nil {
			hclog.L().Error("unable to write stage entries to log", "stage", s.Name, "error", err)
		}
		p.end(s)
	}
	wg.Wait()
	return ops
}

var _ error = StageError{}

type StageError struct {
	stage string
	err   error
}

func (e StageError) Error() string {
	return "stage " + e.stage + ": " + e.err.Error()
}

func (e StageError) Unwrap() error {
	return e.err
}
