// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package host

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp/syscheck/op"
	"github.com/hashicorp/syscheck/runner"
)

// FirmwareTable names the firmware table a Firmware runner reads.
type FirmwareTable string

const (
	// BIOSTable is the BIOS information table (vendor, version, release date).
	BIOSTable FirmwareTable = "bios"
	// SystemTable is the system information table (manufacturer, product, serial number).
	SystemTable FirmwareTable = "system"
)

// ErrFirmwareUnsupported is returned on platforms without an in-process firmware reader.
var ErrFirmwareUnsupported = errors.New("reading firmware tables is not supported on this platform")

// Field is one key/value pair read from a firmware table.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FirmwareInfo is the result of the Firmware runner.
type FirmwareInfo struct {
	Table  FirmwareTable `json:"table"`
	Source string        `json:"source"`
	Fields []Field       `json:"fields"`
}

// Text renders the fields one "Key=Value" per line, the way `wmic ... /format:list` does.
func (f FirmwareInfo) Text() string {
	var sb strings.Builder
	for i, field := range f.Fields {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(field.Key)
		sb.WriteString("=")
		sb.WriteString(field.Value)
	}
	return sb.String()
}

var _ runner.Runner = Firmware{}

// Firmware reads a firmware table in-process, without relying on an inventory binary being installed.
type Firmware struct {
	Table FirmwareTable `json:"table"`
}

func NewFirmware(table FirmwareTable) *Firmware {
	return &Firmware{Table: table}
}

func (f Firmware) ID() string {
	return "firmware " + string(f.Table)
}

func (f Firmware) Run() op.Op {
	startTime := time.Now()

	if f.Table != BIOSTable && f.Table != SystemTable {
		err := fmt.Errorf("unknown firmware table, table=%s", f.Table)
		return op.New(f.ID(), nil, op.Fail, err, runner.Params(f), startTime, time.Now())
	}

	info, err := readFirmware(f.Table)
	if errors.Is(err, ErrFirmwareUnsupported) {
		return op.New(f.ID(), nil, op.Skip, err, runner.Params(f), startTime, time.Now())
	}
	if err != nil {
		hclog.L().Trace("runner/host.Firmware.Run()", "table", f.Table, "error", err)
		err1 := fmt.Errorf("error reading firmware table=%s err=%w", f.Table, err)
		return op.New(f.ID(), nil, op.Fail, err1, runner.Params(f), startTime, time.Now())
	}
	return op.New(f.ID(), info, op.Success, nil, runner.Params(f), startTime, time.Now())
}

// nonEmpty drops fields the firmware left blank.
func nonEmpty(fields []Field) []Field {
	kept := make([]Field, 0, len(fields))
	for _, field := range fields {
		if v := strings.TrimSpace(field.Value); v != "" {
			kept = append(kept, Field{Key: field.Key, Value: v})
		}
	}
	return kept
}
