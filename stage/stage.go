// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package stage holds the ordered collection stages of a run and the pipeline that executes them.
//
// Each stage writes its findings through the hclog.Logger it is handed. A failing reading is logged at error
// level and the stage moves on to the next one; the stage's op records every such failure.
package stage

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp/syscheck/op"
)

// Milestone is a progress line printed when a stage starts or finishes.
type Milestone struct {
	Percent int
	Message string
}

// CollectFunc performs a stage's checks. The returned error aggregates the readings that failed; it never
// prevents later stages from running.
type CollectFunc func(rc *Context, l hclog.Logger) error

// Stage is one named step of a run.
type Stage struct {
	Name    string
	Begin   Milestone
	End     *Milestone
	Collect CollectFunc
}

func (s Stage) ID() string {
	return "stage " + s.Name
}

// Run executes s inside its failure boundary: a panic is logged as "Stage <name> aborted: <value>" and
// becomes a failed op, the same as a stage that returned errors.
func Run(rc *Context, s Stage, l hclog.Logger) (o op.Op) {
	startTime := time.Now()
	if l == nil {
		l = hclog.NewNullLogger()
	}

	defer func() {
		if r := recover(); r != nil {
			l.Error(fmt.Sprintf("Stage %s aborted: %v", s.Name, r))
			err := StagePanicError{stage: s.Name, value: r}
			o = op.New(s.ID(), nil, op.Fail, err, nil, startTime, time.Now())
		}
	}()

	if s.Collect == nil {
		return op.New(s.ID(), nil, op.Skip, fmt.Errorf("stage has nothing to collect, stage=%s", s.Name), nil, startTime, time.Now())
	}

	hclog.L().Debug("stage.Run()", "stage", s.Name)
	if err := s.Collect(rc, l); err != nil {
		return op.New(s.ID(), nil, status(rc), err, nil, startTime, time.Now())
	}
	return op.New(s.ID(), nil, op.Success, nil, nil, startTime, time.Now())
}

// status is the op status of a stage that returned an error. Stages cut short by an interrupted run are Canceled.
func status(rc *Context) op.Status {
	if rc != nil && rc.Ctx != nil && rc.Ctx.Err() != nil {
		return op.Canceled
	}
	return op.Fail
}

// appendErr adds err to errs, labelled with the reading that produced it.
func appendErr(errs *multierror.Error, reading string, err error) *multierror.Error {
	if err == nil {
		return errs
	}
	return multierror.Append(errs, ReadingError{reading: reading, err: err})
}

var _ error = StagePanicError{}

type StagePanicError struct {
	stage string
	value any
}

func (e StagePanicError) Error() string {
	return fmt.Sprintf("stage aborted, stage=%s, panic=%v", e.stage, e.value)
}

var _ error = ReadingError{}

// ReadingError is one failed reading within a stage.
type ReadingError struct {
	reading string
	err     error
}

func (e ReadingError) Error() string {
	return fmt.Sprintf("%s: %s", e.reading, e.err.Error())
}

func (e ReadingError) Unwrap() error {
	return e.err
}
