// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build linux

package host

import (
	"github.com/siderolabs/go-smbios/smbios"
)

// readFirmware decodes the SMBIOS tables exposed under /sys/firmware/dmi. Reading them usually requires root.
func readFirmware(table FirmwareTable) (FirmwareInfo, error) {
	s, err := smbios.New()
	if err != nil {
		return FirmwareInfo{}, err
	}

	info := FirmwareInfo{Table: table, Source: "smbios"}
	switch table {
	case BIOSTable:
		bios := s.BIOSInformation
		info.Fields = nonEmpty([]Field{
			{Key: "Vendor", Value: bios.Vendor},
			{Key: "Version", Value: bios.Version},
			{Key: "ReleaseDate", Value: bios.ReleaseDate},
		})
	case SystemTable:
		sys := s.SystemInformation
		info.Fields = nonEmpty([]Field{
			{Key: "Manufacturer", Value: sys.Manufacturer},
			{Key: "ProductName", Value: sys.ProductName},
			{Key: "Version", Value: sys.Version},
			{Key: "SerialNumber", Value: sys.SerialNumber},
			{Key: "SKUNumber", Value: sys.SKUNumber},
			{Key: "Family", Value: sys.Family},
		})
	}
	return info, nil
}
