// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package host

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/hashicorp/syscheck/op"
	"github.com/hashicorp/syscheck/runner"
)

// DefaultCPUInterval is how long CPU utilization is sampled for.
const DefaultCPUInterval = time.Second

// CPUUsage is the result of the CPU runner.
type CPUUsage struct {
	Percent float64 `json:"percent"`
}

var _ runner.Runner = CPU{}

// CPU samples overall CPU utilization. Run blocks for the sample interval.
type CPU struct {
	ctx      context.Context
	Interval runner.Timeout `json:"interval"`
}

func NewCPU(ctx context.Context, interval time.Duration) *CPU {
	if interval <= 0 {
		interval = DefaultCPUInterval
	}
	return &CPU{
		ctx:      ctx,
		Interval: runner.Timeout(interval),
	}
}

func (c CPU) ID() string {
	return "cpu"
}

func (c CPU) Run() op.Op {
	startTime := time.Now()

	// third party
	percents, err := cpu.PercentWithContext(contextOrBackground(c.ctx), time.Duration(c.Interval), false)
	if err != nil {
		hclog.L().Trace("runner/host.CPU.Run()", "error", err)
		err1 := fmt.Errorf("error getting cpu utilization err=%w", err)
		return op.New(c.ID(), nil, op.Fail, err1, runner.Params(c), startTime, time.Now())
	}
	if len(percents) == 0 {
		return op.New(c.ID(), nil, op.Fail, errors.New("no cpu utilization reported"), runner.Params(c), startTime, time.Now())
	}

	return op.New(c.ID(), CPUUsage{Percent: percents[0]}, op.Success, nil, runner.Params(c), startTime, time.Now())
}
