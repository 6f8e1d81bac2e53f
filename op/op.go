// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package op

import (
	"fmt"
	"time"
)

// Status describes the result of an operation.
type Status string

const (
	// Success means all systems green
	Success Status = "success"
	// Fail means that we detected a known error and can conclusively say that the op did not complete.
	Fail Status = "fail"
	// Unknown means that we detected an error and the result is indeterminate (e.g. the command ran but exited
	// non-zero), or we don't recognize the error.
	Unknown Status = "unknown"
	// Skip means that the op was intentionally not run, typically because the host does not provide the
	// command or capability it needs.
	Skip Status = "skip"
	// Timeout means that the op did not complete within its allotted time.
	Timeout Status = "timeout"
	// Canceled means that the op's context was canceled before it completed.
	Canceled Status = "canceled"
)

// Op is the outcome of a single runner or stage: what ran, what it returned, and how it ended.
type Op struct {
	Identifier string                 `json:"-"`
	Result     any                    `json:"result"`
	ErrString  string                 `json:"error"` // this simplifies json marshaling
	Error      error                  `json:"-"`
	Status     Status                 `json:"status"`
	Params     map[string]interface{} `json:"params,omitempty"`
	Start      time.Time              `json:"start"`
	End        time.Time              `json:"end"`
}

// New takes the runner's identifier and everything the run produced, and builds an Op.
func New(id string, result any, status Status, err error, params map[string]any, start, end time.Time) Op {
	o := Op{
		Identifier: id,
		Result:     result,
		Error:      err,
		Status:     status,
		Params:     params,
		Start:      start,
		End:        end,
	}
	if err != nil {
		o.ErrString = fmt.Sprintf("%s", err)
	}
	return o
}

// NewCancel returns an Op for a run whose context was canceled.
func NewCancel(id string, err error, params map[string]any, start time.Time) Op {
	return New(id, nil, Canceled, err, params, start, time.Now())
}

// NewTimeout returns an Op for a run whose context deadline expired.
func NewTimeout(id string, err error, params map[string]any, start time.Time) Op {
	return New(id, nil, Timeout, err, params, start, time.Now())
}

// Duration is how long the op took to run.
func (o Op) Duration() time.Duration {
	if o.Start.IsZero() || o.End.IsZero() {
		return 0
	}
	return o.End.Sub(o.Start)
}

// StatusCounts takes a slice of ops and returns a map containing sums of each Status
func StatusCounts(ops []Op) (map[Status]int, error) {
	statuses := make(map[Status]int)
	for _, o := range ops {
		if o.Status == "" {
			return nil, fmt.Errorf("unable to build Statuses map, op not run: op=%s", o.Identifier)
		}
		statuses[o.Status]++
	}
	return statuses, nil
}
