// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package host

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/hashicorp/syscheck/op"
	"github.com/hashicorp/syscheck/runner"
)

// MemoryUsage is the result of the Memory runner.
type MemoryUsage struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"usedPercent"`
}

var _ runner.Runner = Memory{}

type Memory struct {
	ctx context.Context
}

func NewMemory(ctx context.Context) *Memory {
	return &Memory{ctx: ctx}
}

func (m Memory) ID() string {
	return "memory"
}

// Run calls out to mem.VirtualMemory
func (m Memory) Run() op.Op {
	startTime := time.Now()

	memoryInfo, err := mem.VirtualMemoryWithContext(contextOrBackground(m.ctx))
	if err != nil {
		hclog.L().Trace("runner/host.Memory.Run()", "error", err)
		return op.New(m.ID(), nil, op.Fail, err, runner.Params(m), startTime, time.Now())
	}

	usage := MemoryUsage{
		Total:       memoryInfo.Total,
		Used:        memoryInfo.Used,
		UsedPercent: memoryInfo.UsedPercent,
	}
	return op.New(m.ID(), usage, op.Success, nil, runner.Params(m), startTime, time.Now())
}
