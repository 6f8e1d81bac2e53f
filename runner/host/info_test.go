// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package host

import (
	"testing"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/stretchr/testify/require"
)

func Test_infoStat(t *testing.T) {
	inputInfo := host.InfoStat{
		Hostname:             "host-1",
		Uptime:               12345,
		BootTime:             1,
		Procs:                100,
		OS:                   "linux",
		Platform:             "rhel",
		PlatformFamily:       "rhel",
		PlatformVersion:      "8.0",
		KernelVersion:        "5.0",
		KernelArch:           "amd64",
		VirtualizationSystem: "virtual-system",
		VirtualizationRole:   "virtual-role",
		HostID:               "12345",
	}

	expected := InfoStat{
		Hostname:             "host-1",
		Uptime:               12345,
		BootTime:             1,
		Procs:                100,
		OS:                   "linux",
		Platform:             "rhel",
		PlatformFamily:       "rhel",
		PlatformVersion:      "8.0",
		KernelVersion:        "5.0",
		KernelArch:           "amd64",
		VirtualizationSystem: "virtual-system",
		VirtualizationRole:   "virtual-role",
		HostID:               "12345",
	}
	require.Equal(t, expected, infoStat(&inputInfo))
}
