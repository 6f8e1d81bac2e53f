// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package host

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/hashicorp/syscheck/op"
	"github.com/hashicorp/syscheck/runner"
)

// CoreTempGroup is the sensor group reported by the Intel/AMD core temperature drivers.
const CoreTempGroup = "coretemp"

// ErrSensorsUnavailable is returned when the platform does not expose temperature sensors at all.
var ErrSensorsUnavailable = errors.New("temperature sensors are not available on this platform")

// readTemperatures and sensorsGOOS are swapped out in tests.
var (
	readTemperatures = host.SensorsTemperaturesWithContext
	sensorsGOOS      = runtime.GOOS
)

// TemperatureReading is the result of the Temperature runner.
type TemperatureReading struct {
	Sensor  string  `json:"sensor"`
	Celsius float64 `json:"celsius"`
}

var _ runner.Runner = Temperature{}

// Temperature reads the first sensor of a sensor group. A host without the sensor API, or without the
// group, yields a Skip op: it is an absent capability, not a failure.
type Temperature struct {
	ctx   context.Context
	Group string `json:"group"`
}

func NewTemperature(ctx context.Context, group string) *Temperature {
	if group == "" {
		group = CoreTempGroup
	}
	return &Temperature{
		ctx:   ctx,
		Group: group,
	}
}

func (t Temperature) ID() string {
	return "temperature " + t.Group
}

func (t Temperature) Run() op.Op {
	startTime := time.Now()

	temps, err := readTemperatures(contextOrBackground(t.ctx))
	if err != nil {
		// Linux reports unreadable individual sensors as warnings alongside the ones it could read.
		hclog.L().Trace("runner/host.Temperature.Run()", "error", err, "readings", len(temps))
		if len(temps) == 0 {
			if sensorsUnavailable(err, sensorsGOOS) {
				hclog.L().Debug("temperature sensors unavailable", "error", err)
				return op.New(t.ID(), nil, op.Skip, ErrSensorsUnavailable, runner.Params(t), startTime, time.Now())
			}
			err1 := fmt.Errorf("error reading temperature sensors err=%w", err)
			return op.New(t.ID(), nil, op.Fail, err1, runner.Params(t), startTime, time.Now())
		}
	}

	reading, ok := firstInGroup(temps, t.Group)
	if !ok {
		return op.New(t.ID(), nil, op.Skip, SensorGroupNotFoundError{group: t.Group}, runner.Params(t), startTime, time.Now())
	}
	return op.New(t.ID(), reading, op.Success, nil, runner.Params(t), startTime, time.Now())
}

// firstInGroup returns the first reading whose sensor key is the group itself or one of its labelled entries
// (e.g. "coretemp_package_id_0").
func firstInGroup(temps []host.TemperatureStat, group string) (TemperatureReading, bool) {
	prefix := group + "_"
	for _, ts := range temps {
		key := strings.ToLower(ts.SensorKey)
		if key == group || strings.HasPrefix(key, prefix) {
			return TemperatureReading{Sensor: ts.SensorKey, Celsius: ts.Temperature}, true
		}
	}
	return TemperatureReading{}, false
}

// sensorsUnavailable reports whether a read that produced no readings means the host cannot expose sensors to
// this process. On Windows the thermal zone WMI class needs administrator rights and is missing on many machines.
func sensorsUnavailable(err error, goos string) bool {
	return goos == "windows" || isNotImplemented(err)
}

// isNotImplemented matches gopsutil's internal "not implemented yet" error, which it returns on platforms
// without a sensors implementation. The error value itself lives in an internal package.
func isNotImplemented(err error) bool {
	return strings.Contains(err.Error(), "not implemented")
}

var _ error = SensorGroupNotFoundError{}

type SensorGroupNotFoundError struct {
	group string
}

func (e SensorGroupNotFoundError) Error() string {
	return fmt.Sprintf("no readings for sensor group, group=%s", e.group)
}
