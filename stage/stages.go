// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp/syscheck/op"
	"github.com/hashicorp/syscheck/runner/host"
)

const (
	Environment = "environment"
	Inventory   = "inventory"
	Network     = "network"
	Resources   = "resources"
	Disk        = "disk"
	Directory   = "directory"
	Health      = "health"
	Accounts    = "accounts"
)

// NowFormat is how the run's start time is written in the environment section.
const NowFormat = "2006-01-02 15:04:05.000000"

// TemperatureUnavailable is logged when the host has no readable CPU temperature sensor.
const TemperatureUnavailable = "Temperature information is not available on this system."

// All returns every stage in run order.
func All() []Stage {
	return []Stage{
		{
			Name:    Environment,
			Begin:   Milestone{10, "Logging Environment Information..."},
			Collect: CollectEnvironment,
		},
		{
			Name:    Inventory,
			Begin:   Milestone{20, "Collecting local system information..."},
			End:     &Milestone{30, "Local system information collected."},
			Collect: CollectInventory,
		},
		{
			Name:    Network,
			Begin:   Milestone{40, "Running network diagnostics..."},
			End:     &Milestone{50, "Network diagnostics complete."},
			Collect: CollectNetwork,
		},
		{
			Name:    Resources,
			Begin:   Milestone{60, "Collecting CPU and memory usage..."},
			End:     &Milestone{65, "CPU and Memory usage collected."},
			Collect: CollectResources,
		},
		{
			Name:    Disk,
			Begin:   Milestone{70, "Collecting disk usage..."},
			End:     &Milestone{75, "Disk usage collected."},
			Collect: CollectDisk,
		},
		{
			Name:    Directory,
			Begin:   Milestone{80, "Fetching Active Directory information..."},
			End:     &Milestone{85, "Active Directory info fetched."},
			Collect: CollectDirectory,
		},
		{
			Name:    Health,
			Begin:   Milestone{90, "Collecting system health checks..."},
			Collect: CollectHealth,
		},
		{
			Name:    Accounts,
			Begin:   Milestone{100, "Collecting local user and group information..."},
			Collect: CollectAccounts,
		},
	}
}

// CollectEnvironment logs who is running the check, where, and when, followed by the platform details.
func CollectEnvironment(rc *Context, l hclog.Logger) error {
	l.Info(fmt.Sprintf("Logged Environment Information for %s", rc.Hostname))
	l.Info(fmt.Sprintf("Current Date and Time: %s", rc.Start.Format(NowFormat)))
	l.Info(fmt.Sprintf("Username: %s", rc.Username))
	l.Info(fmt.Sprintf("Computer Name: %s", rc.Hostname))

	o := rc.Sources.Info(rc.Ctx).Run()
	if o.Status != op.Success {
		err := opError(o)
		l.Error(fmt.Sprintf("Error fetching platform information: %s", err))
		return appendErr(nil, "platform", err).ErrorOrNil()
	}
	info, ok := o.Result.(host.InfoStat)
	if !ok {
		return nil
	}
	l.Info(fmt.Sprintf("Operating System: %s %s %s", info.OS, info.Platform, info.PlatformVersion))
	l.Info(fmt.Sprintf("Kernel: %s %s", info.KernelVersion, info.KernelArch))
	l.Info(fmt.Sprintf("Uptime: %s", time.Duration(info.Uptime)*time.Second))
	return nil
}

type inventoryItem struct {
	header  string
	command string
	table   host.FirmwareTable
}

// CollectInventory logs the BIOS, computer system and operating system reports. When the BIOS or system
// command is unavailable the firmware tables are read directly instead.
func CollectInventory(rc *Context, l hclog.Logger) error {
	items := []inventoryItem{
		{header: "BIOS Information", command: rc.Commands.BIOS, table: host.BIOSTable},
		{header: "System Information", command: rc.Commands.System, table: host.SystemTable},
		{header: "Operating System Information", command: rc.Commands.OS},
	}

	var errs *multierror.Error
	for _, item := range items {
		o := runCommand(rc, item.command, rc.CommandTimeout)
		if text, ok := commandText(o); ok {
			l.Info(section(item.header, text))
		}
		if o.Status == op.Success {
			continue
		}
		err := opError(o)

		if o.Status == op.Skip && item.table != "" {
			fo := rc.Sources.Firmware(item.table).Run()
			if info, ok := fo.Result.(host.FirmwareInfo); ok && fo.Status == op.Success {
				hclog.L().Debug("inventory command unavailable, read firmware instead", "command", item.command, "error", err)
				l.Info(section(item.header+" (firmware)", info.Text()))
				continue
			}
			err = fmt.Errorf("%w; firmware fallback: %s", err, opError(fo))
		}

		l.Error(fmt.Sprintf("Error fetching %s: %s", item.header, err))
		errs = appendErr(errs, item.header, err)
	}
	return errs.ErrorOrNil()
}

type probe struct {
	name    string
	header  string
	command string
	timeout time.Duration
}

// CollectNetwork resolves, pings and traces the route to the host's own name. Each probe fails on its own.
func CollectNetwork(rc *Context, l hclog.Logger) error {
	probes := []probe{
		{name: "nslookup", header: "NSLookup for " + rc.Hostname, command: rc.Commands.Lookup, timeout: rc.CommandTimeout},
		{name: "ping", header: "Ping to " + rc.Hostname, command: rc.Commands.Echo, timeout: rc.CommandTimeout},
		{name: "tracert", header: "Tracert to " + rc.Hostname, command: rc.Commands.Trace, timeout: rc.TraceTimeout},
	}

	var errs *multierror.Error
	for _, p := range probes {
		o := runCommand(rc, p.command, p.timeout)
		if text, ok := commandText(o); ok {
			l.Info(section(p.header, text))
		}
		if o.Status == op.Success {
			continue
		}
		err := opError(o)
		l.Error(fmt.Sprintf("Error during network investigation (%s): %s", p.name, err))
		errs = appendErr(errs, p.name, err)
	}
	return errs.ErrorOrNil()
}

// CollectResources logs CPU and memory utilization and the number of running processes.
func CollectResources(rc *Context, l hclog.Logger) error {
	var errs *multierror.Error

	o := rc.Sources.CPU(rc.Ctx, rc.CPUInterval).Run()
	if usage, ok := o.Result.(host.CPUUsage); ok && o.Status == op.Success {
		l.Info(fmt.Sprintf("CPU Usage: %s%%", formatNumber(usage.Percent)))
	} else {
		err := opError(o)
		l.Error(fmt.Sprintf("Error fetching CPU usage: %s", err))
		errs = appendErr(errs, "cpu", err)
	}

	o = rc.Sources.Memory(rc.Ctx).Run()
	if usage, ok := o.Result.(host.MemoryUsage); ok && o.Status == op.Success {
		l.Info(fmt.Sprintf("Memory Usage: %s%%", formatNumber(usage.UsedPercent)))
	} else {
		err := opError(o)
		l.Error(fmt.Sprintf("Error fetching memory usage: %s", err))
		errs = appendErr(errs, "memory", err)
	}

	o = rc.Sources.Processes().Run()
	if count, ok := o.Result.(int); ok && o.Status == op.Success {
		l.Info(fmt.Sprintf("Running Processes: %d", count))
	} else {
		err := opError(o)
		l.Error(fmt.Sprintf("Error fetching process list: %s", err))
		errs = appendErr(errs, "processes", err)
	}

	return errs.ErrorOrNil()
}

// CollectDisk logs how full the primary volume is.
func CollectDisk(rc *Context, l hclog.Logger) error {
	o := rc.Sources.Disk(rc.Ctx, rc.DiskPath).Run()
	usage, ok := o.Result.(host.DiskUsage)
	if !ok || o.Status != op.Success {
		err := opError(o)
		l.Error(fmt.Sprintf("Error fetching disk usage: %s", err))
		return appendErr(nil, "disk", err).ErrorOrNil()
	}
	l.Info(fmt.Sprintf("Disk Usage: %s%% used on %s GB total", formatNumber(usage.UsedPercent), formatGB(usage.TotalGB())))
	return nil
}

// CollectDirectory logs what the directory service knows about this host.
func CollectDirectory(rc *Context, l hclog.Logger) error {
	o := runCommand(rc, rc.Commands.Directory, rc.CommandTimeout)
	if text, ok := commandText(o); ok {
		l.Info(section(fmt.Sprintf("Active Directory Information for %s", rc.Hostname), text))
	}
	if o.Status == op.Success {
		return nil
	}
	err := opError(o)
	l.Error(fmt.Sprintf("Error fetching Active Directory info: %s", err))
	return appendErr(nil, "directory", err).ErrorOrNil()
}

// CollectHealth logs the CPU temperature and the battery state. Hosts without either sensor are not an error.
func CollectHealth(rc *Context, l hclog.Logger) error {
	var errs *multierror.Error

	o := rc.Sources.Temperature(rc.Ctx).Run()
	switch reading, ok := o.Result.(host.TemperatureReading); {
	case ok && o.Status == op.Success:
		l.Info(fmt.Sprintf("CPU Temperature: %s°C", formatNumber(reading.Celsius)))
	case o.Status == op.Skip:
		hclog.L().Debug("no temperature reading", "reason", o.Error)
		l.Info(TemperatureUnavailable)
	default:
		err := opError(o)
		l.Error(fmt.Sprintf("Error fetching temperature info: %s", err))
		errs = appendErr(errs, "temperature", err)
	}

	o = rc.Sources.Battery().Run()
	switch status, ok := o.Result.(host.BatteryStatus); {
	case ok && o.Status == op.Success:
		l.Info(fmt.Sprintf("Battery Percentage: %s%%", formatNumber(status.Percent)))
		l.Info(fmt.Sprintf("Battery Plugged In: %s", yesNo(status.PluggedIn)))
	case o.Status == op.Skip:
		hclog.L().Debug("no battery reading", "reason", o.Error)
	default:
		err := opError(o)
		l.Error(fmt.Sprintf("Error fetching battery info: %s", err))
		errs = appendErr(errs, "battery", err)
	}

	return errs.ErrorOrNil()
}

// CollectAccounts logs the local users and groups.
func CollectAccounts(rc *Context, l hclog.Logger) error {
	items := []struct {
		header  string
		what    string
		command string
	}{
		{header: "Local Users", what: "local users", command: rc.Commands.Users},
		{header: "Local Groups", what: "local groups", command: rc.Commands.Groups},
	}

	var errs *multierror.Error
	for _, item := range items {
		o := runCommand(rc, item.command, rc.CommandTimeout)
		if text, ok := commandText(o); ok {
			l.Info(section(item.header, text))
		}
		if o.Status == op.Success {
			continue
		}
		err := opError(o)
		l.Error(fmt.Sprintf("Error fetching %s: %s", item.what, err))
		errs = appendErr(errs, item.what, err)
	}
	return errs.ErrorOrNil()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
