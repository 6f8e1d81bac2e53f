// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build windows

package host

import (
	"github.com/yusufpapurcu/wmi"
)

type win32BIOS struct {
	Manufacturer      string
	SMBIOSBIOSVersion string
	Version           string
	SerialNumber      string
}

type win32ComputerSystem struct {
	Manufacturer string
	Model        string
	Domain       string
	SystemType   string
}

// readFirmware queries WMI directly, which keeps working on hosts where the wmic binary has been removed.
func readFirmware(table FirmwareTable) (FirmwareInfo, error) {
	info := FirmwareInfo{Table: table, Source: "wmi"}
	switch table {
	case BIOSTable:
		var bios []win32BIOS
		if err := wmi.Query("SELECT Manufacturer, SMBIOSBIOSVersion, Version, SerialNumber FROM Win32_BIOS", &bios); err != nil {
			return FirmwareInfo{}, err
		}
		if len(bios) > 0 {
			info.Fields = nonEmpty([]Field{
				{Key: "Manufacturer", Value: bios[0].Manufacturer},
				{Key: "SMBIOSBIOSVersion", Value: bios[0].SMBIOSBIOSVersion},
				{Key: "Version", Value: bios[0].Version},
				{Key: "SerialNumber", Value: bios[0].SerialNumber},
			})
		}
	case SystemTable:
		var cs []win32ComputerSystem
		if err := wmi.Query("SELECT Manufacturer, Model, Domain, SystemType FROM Win32_ComputerSystem", &cs); err != nil {
			return FirmwareInfo{}, err
		}
		if len(cs) > 0 {
			info.Fields = nonEmpty([]Field{
				{Key: "Manufacturer", Value: cs[0].Manufacturer},
				{Key: "Model", Value: cs[0].Model},
				{Key: "Domain", Value: cs[0].Domain},
				{Key: "SystemType", Value: cs[0].SystemType},
			})
		}
	}
	return info, nil
}
