// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package host

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/hashicorp/syscheck/op"
	"github.com/hashicorp/syscheck/runner"
)

const bytesPerGB = 1024 * 1024 * 1024

// DiskUsage is the result of the Disk runner.
type DiskUsage struct {
	Path        string  `json:"path"`
	Fstype      string  `json:"fstype"`
	Total       uint64  `json:"total"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"usedPercent"`
}

// TotalGB is the volume's capacity in gigabytes (bytes / 1024^3).
func (d DiskUsage) TotalGB() float64 {
	return float64(d.Total) / bytesPerGB
}

var _ runner.Runner = Disk{}

// Disk reports usage of the filesystem holding Path.
type Disk struct {
	ctx  context.Context
	Path string `json:"path"`
}

func NewDisk(ctx context.Context, path string) *Disk {
	if path == "" {
		path = DefaultDiskPath()
	}
	return &Disk{
		ctx:  ctx,
		Path: path,
	}
}

// DefaultDiskPath is the primary volume: the system drive on Windows, "/" everywhere else.
func DefaultDiskPath() string {
	if runtime.GOOS == "windows" {
		drive := os.Getenv("SystemDrive")
		if drive == "" {
			drive = "C:"
		}
		return drive + `\`
	}
	return "/"
}

func (d Disk) ID() string {
	return "disk " + d.Path
}

func (d Disk) Run() op.Op {
	startTime := time.Now()

	// third party
	usage, err := disk.UsageWithContext(contextOrBackground(d.ctx), d.Path)
	if err != nil {
		hclog.L().Trace("runner/host.Disk.Run()", "error", err)
		err1 := fmt.Errorf("error getting disk usage for path=%s err=%w", d.Path, err)
		return op.New(d.ID(), nil, op.Fail, err1, runner.Params(d), startTime, time.Now())
	}

	return op.New(d.ID(), convertUsage(usage), op.Success, nil, runner.Params(d), startTime, time.Now())
}

func convertUsage(u *disk.UsageStat) DiskUsage {
	return DiskUsage{
		Path:        u.Path,
		Fstype:      u.Fstype,
		Total:       u.Total,
		Free:        u.Free,
		UsedPercent: u.UsedPercent,
	}
}
