// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package stage

import "fmt"

// Commands is the set of command lines a platform uses for the checks that shell out.
type Commands struct {
	BIOS      string
	System    string
	OS        string
	Lookup    string
	Echo      string
	Trace     string
	Directory string
	Users     string
	Groups    string
}

// CommandsFor returns the command table for goos, with hostname substituted where a check targets the host.
// Unrecognized platforms get the Linux table.
func CommandsFor(goos, hostname string) Commands {
	switch goos {
	case "windows":
		return Commands{
			BIOS:   "wmic bios get /format:list",
			System: "wmic computersystem get /format:list",
			OS:     "wmic os get /format:list",
			Lookup: "nslookup " + hostname,
			Echo:   "ping " + hostname,
			Trace:  "tracert " + hostname,
			Directory: fmt.Sprintf(
				`powershell -NoProfile -Command "Get-ADComputer %s | Select-Object Name, ParentContainer, Description, LastLogonDate"`,
				hostname),
			Users:  "net user",
			Groups: "net localgroup",
		}
	case "darwin":
		return Commands{
			BIOS:      "system_profiler SPHardwareDataType",
			System:    "sysctl hw.model hw.ncpu hw.memsize",
			OS:        "sw_vers",
			Lookup:    "nslookup " + hostname,
			Echo:      "ping -c 4 " + hostname,
			Trace:     "traceroute " + hostname,
			Directory: "dsconfigad -show",
			Users:     "dscl . -list /Users",
			Groups:    "dscl . -list /Groups",
		}
	default:
		return Commands{
			BIOS:      "dmidecode -t bios",
			System:    "dmidecode -t system",
			OS:        "uname -a",
			Lookup:    "nslookup " + hostname,
			Echo:      "ping -c 4 " + hostname,
			Trace:     "traceroute " + hostname,
			Directory: "realm list",
			Users:     "getent passwd",
			Groups:    "getent group",
		}
	}
}
