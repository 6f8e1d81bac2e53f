// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package host

import (
	"errors"
	"fmt"
	"time"

	"github.com/distatus/battery"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp/syscheck/op"
	"github.com/hashicorp/syscheck/runner"
)

// ErrNoBattery is returned when the host does not report a battery.
var ErrNoBattery = errors.New("no battery present")

// listBatteries is swapped out in tests.
var listBatteries = battery.GetAll

// BatteryStatus is the result of the Battery runner.
type BatteryStatus struct {
	Percent   float64 `json:"percent"`
	PluggedIn bool    `json:"pluggedIn"`
	State     string  `json:"state"`
}

var _ runner.Runner = Battery{}

// Battery reports charge and power state of the first battery. Hosts without a battery yield a Skip op.
type Battery struct{}

func NewBattery() *Battery {
	return &Battery{}
}

func (b Battery) ID() string {
	return "battery"
}

func (b Battery) Run() op.Op {
	startTime := time.Now()

	// Errors are per battery and partial: a battery with unreadable rate or voltage still has a usable charge.
	batteries, err := listBatteries()
	if err != nil {
		hclog.L().Trace("runner/host.Battery.Run()", "error", err)
	}
	first := firstSystemBattery(batteries)
	if first == nil {
		return op.New(b.ID(), nil, op.Skip, ErrNoBattery, runner.Params(b), startTime, time.Now())
	}

	status, convErr := batteryStatus(first.Current, first.Full, first.State.String())
	if convErr != nil {
		if err != nil {
			convErr = fmt.Errorf("%w: %s", convErr, err)
		}
		return op.New(b.ID(), nil, op.Fail, convErr, runner.Params(b), startTime, time.Now())
	}
	return op.New(b.ID(), status, op.Success, nil, runner.Params(b), startTime, time.Now())
}

// firstSystemBattery returns the first battery that reports a full capacity. Peripheral batteries (a wireless
// mouse, for example) are listed too but have no energy readings.
func firstSystemBattery(batteries []*battery.Battery) *battery.Battery {
	for _, b := range batteries {
		if b != nil && b.Full > 0 {
			return b
		}
	}
	return nil
}

// batteryStatus converts raw charge readings (in mWh) and the reported state into a BatteryStatus. The battery
// counts as plugged in while it is charging, full, or idle on external power.
func batteryStatus(current, full float64, state string) (BatteryStatus, error) {
	if full <= 0 {
		return BatteryStatus{}, fmt.Errorf("battery reports no full capacity, full=%v", full)
	}
	percent := current / full * 100
	if percent > 100 {
		percent = 100
	}

	var plugged bool
	switch state {
	case "Charging", "Full", "Idle":
		plugged = true
	}

	return BatteryStatus{
		Percent:   percent,
		PluggedIn: plugged,
		State:     state,
	}, nil
}
