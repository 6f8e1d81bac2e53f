// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package host

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/hashicorp/syscheck/op"
	"github.com/hashicorp/syscheck/runner"
)

// InfoStat includes general information about the Host. It serves as the basis for the results produced
// by the Info runner.
type InfoStat struct {
	Hostname             string `json:"hostname"`
	OS                   string `json:"os"`
	Platform             string `json:"platform"`
	PlatformFamily       string `json:"platformFamily"`
	PlatformVersion      string `json:"platformVersion"`
	KernelVersion        string `json:"kernelVersion"`
	KernelArch           string `json:"kernelArch"`
	VirtualizationSystem string `json:"virtualizationSystem"`
	VirtualizationRole   string `json:"virtualizationRole"`
	HostID               string `json:"hostId"`

	Uptime   uint64 `json:"uptime"`
	BootTime uint64 `json:"bootTime"`
	Procs    uint64 `json:"procs"`
}

var _ runner.Runner = Info{}

type Info struct {
	ctx context.Context
}

func NewInfo(ctx context.Context) *Info {
	return &Info{
		ctx: ctx,
	}
}

func (i Info) ID() string {
	return "info"
}

func (i Info) Run() op.Op {
	startTime := time.Now()

	hi, err := host.InfoWithContext(contextOrBackground(i.ctx))
	if err != nil {
		hclog.L().Trace("runner/host.Info.Run()", "error", err)
		return op.New(i.ID(), nil, op.Fail, err, runner.Params(i), startTime, time.Now())
	}

	return op.New(i.ID(), infoStat(hi), op.Success, nil, runner.Params(i), startTime, time.Now())
}

func infoStat(hi *host.InfoStat) InfoStat {
	return InfoStat{
		Hostname:             hi.Hostname,
		OS:                   hi.OS,
		Platform:             hi.Platform,
		PlatformFamily:       hi.PlatformFamily,
		PlatformVersion:      hi.PlatformVersion,
		KernelVersion:        hi.KernelVersion,
		KernelArch:           hi.KernelArch,
		VirtualizationSystem: hi.VirtualizationSystem,
		VirtualizationRole:   hi.VirtualizationRole,
		HostID:               hi.HostID,
		Uptime:               hi.Uptime,
		BootTime:             hi.BootTime,
		Procs:                hi.Procs,
	}
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
