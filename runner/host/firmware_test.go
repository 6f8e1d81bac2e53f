// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package host

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hashicorp/syscheck/op"
)

func TestFirmwareInfo_Text(t *testing.T) {
	info := FirmwareInfo{
		Table: BIOSTable,
		Fields: nonEmpty([]Field{
			{Key: "Vendor", Value: "LENOVO"},
			{Key: "Version", Value: "  N2HET63W (1.46 )  "},
			{Key: "ReleaseDate", Value: ""},
		}),
	}
	assert.Equal(t, "Vendor=LENOVO\nVersion=N2HET63W (1.46 )", info.Text())
	assert.Equal(t, "", FirmwareInfo{}.Text())
}

func TestFirmware_RunUnknownTable(t *testing.T) {
	o := NewFirmware("baseboard").Run()
	assert.Equal(t, op.Fail, o.Status)
	assert.Error(t, o.Error)
}
