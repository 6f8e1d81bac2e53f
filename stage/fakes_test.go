// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp/syscheck/config"
	"github.com/hashicorp/syscheck/diaglog"
	"github.com/hashicorp/syscheck/op"
	"github.com/hashicorp/syscheck/runner"
	"github.com/hashicorp/syscheck/runner/host"
)

var errNotFound = errors.New("command not found")

// fakeRunner returns a canned op.
type fakeRunner struct {
	id string
	o  op.Op
}

func (r fakeRunner) ID() string {
	return r.id
}

func (r fakeRunner) Run() op.Op {
	o := r.o
	o.Identifier = r.id
	return o
}

func success(result any) op.Op {
	return op.Op{Result: result, Status: op.Success}
}

func skip(err error) op.Op {
	return op.Op{Status: op.Skip, Error: err}
}

func fail(err error) op.Op {
	return op.Op{Status: op.Fail, Error: err}
}

// fakeSources answers every query from its fields. Commands missing from the map are reported as not found.
type fakeSources struct {
	mu       sync.Mutex
	commands map[string]op.Op
	ran      []string
	timeouts map[string]time.Duration

	info        op.Op
	firmware    map[host.FirmwareTable]op.Op
	cpu         op.Op
	memory      op.Op
	processes   op.Op
	disk        op.Op
	temperature op.Op
	battery     op.Op
}

var _ Sources = &fakeSources{}

// healthySources reports a laptop-less host with CPU at 42% and memory at 67%, on which every command prints
// "<command> output".
func healthySources(goos, hostname string) *fakeSources {
	cmds := CommandsFor(goos, hostname)
	commands := make(map[string]op.Op)
	for _, c := range []string{cmds.BIOS, cmds.System, cmds.OS, cmds.Lookup, cmds.Echo, cmds.Trace, cmds.Directory, cmds.Users, cmds.Groups} {
		commands[c] = success(c + " output")
	}
	return &fakeSources{
		commands: commands,
		info: success(host.InfoStat{
			OS:              "linux",
			Platform:        "ubuntu",
			PlatformVersion: "22.04",
			KernelVersion:   "5.15.0",
			KernelArch:      "x86_64",
			Uptime:          3600,
		}),
		firmware:    map[host.FirmwareTable]op.Op{},
		cpu:         success(host.CPUUsage{Percent: 42}),
		memory:      success(host.MemoryUsage{UsedPercent: 67}),
		processes:   success(2),
		disk:        success(host.DiskUsage{Path: "/", Total: 100 * 1024 * 1024 * 1024, UsedPercent: 41.25}),
		temperature: skip(host.ErrSensorsUnavailable),
		battery:     skip(host.ErrNoBattery),
	}
}

func (s *fakeSources) Command(_ context.Context, command string, timeout time.Duration) (runner.Runner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ran = append(s.ran, command)
	if s.timeouts == nil {
		s.timeouts = make(map[string]time.Duration)
	}
	s.timeouts[command] = timeout
	o, ok := s.commands[command]
	if !ok {
		o = skip(fmt.Errorf("%s: %w", strings.Fields(command)[0], errNotFound))
	}
	return fakeRunner{id: command, o: o}, nil
}

func (s *fakeSources) Info(context.Context) runner.Runner {
	return fakeRunner{id: "info", o: s.info}
}

func (s *fakeSources) Firmware(table host.FirmwareTable) runner.Runner {
	o, ok := s.firmware[table]
	if !ok {
		o = skip(host.ErrFirmwareUnsupported)
	}
	return fakeRunner{id: "firmware " + string(table), o: o}
}

func (s *fakeSources) CPU(context.Context, time.Duration) runner.Runner {
	return fakeRunner{id: "cpu", o: s.cpu}
}

func (s *fakeSources) Memory(context.Context) runner.Runner {
	return fakeRunner{id: "memory", o: s.memory}
}

func (s *fakeSources) Processes() runner.Runner {
	return fakeRunner{id: "process", o: s.processes}
}

func (s *fakeSources) Disk(context.Context, string) runner.Runner {
	return fakeRunner{id: "disk", o: s.disk}
}

func (s *fakeSources) Temperature(context.Context) runner.Runner {
	return fakeRunner{id: "temperature", o: s.temperature}
}

func (s *fakeSources) Battery() runner.Runner {
	return fakeRunner{id: "battery", o: s.battery}
}

// memorySink records entries instead of writing a file.
type memorySink struct {
	mu      sync.Mutex
	entries []diaglog.Entry
}

var _ Sink = &memorySink{}

func (m *memorySink) Accept(_ string, level hclog.Level, msg string, _ ...interface{}) {
	if level < hclog.Info {
		return
	}
	_ = m.WriteEntry(diaglog.Entry{Time: time.Now(), Level: level, Message: msg})
}

func (m *memorySink) WriteEntry(e diaglog.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memorySink) messages(level hclog.Level) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

func (m *memorySink) all() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Message)
	}
	return out
}

func testContext(t *testing.T, sources Sources) *Context {
	t.Helper()
	return NewContext(context.Background(), ContextConfig{
		Config:   config.Default("linux"),
		GOOS:     "linux",
		Hostname: "host-1",
		Username: "alice",
		Start:    time.Date(2024, 5, 1, 10, 11, 12, 0, time.Local),
		Sources:  sources,
	})
}

// indexOfPrefix returns the index of the first message starting with prefix, or -1.
func indexOfPrefix(messages []string, prefix string) int {
	for i, m := range messages {
		if strings.HasPrefix(m, prefix) {
			return i
		}
	}
	return -1
}
