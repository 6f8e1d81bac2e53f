// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package host

import (
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/go-ps"

	"github.com/hashicorp/syscheck/op"
	"github.com/hashicorp/syscheck/runner"
)

// listProcesses is swapped out in tests.
var listProcesses = ps.Processes

var _ runner.Runner = ProcessCount{}

// ProcessCount counts the processes running on the host. The result is an int.
type ProcessCount struct{}

func NewProcessCount() *ProcessCount {
	return &ProcessCount{}
}

func (p ProcessCount) ID() string {
	return "process count"
}

func (p ProcessCount) Run() op.Op {
	startTime := time.Now()

	processes, err := listProcesses()
	if err != nil {
		hclog.L().Trace("runner/host.ProcessCount.Run()", "error", err)
		return op.New(p.ID(), nil, op.Fail, err, runner.Params(p), startTime, time.Now())
	}
	return op.New(p.ID(), len(processes), op.Success, nil, runner.Params(p), startTime, time.Now())
}
