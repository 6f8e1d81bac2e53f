// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build !linux && !windows

package host

func readFirmware(FirmwareTable) (FirmwareInfo, error) {
	return FirmwareInfo{}, ErrFirmwareUnsupported
}
