// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"context"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/syscheck/op"
	"github.com/hashicorp/syscheck/progress"
)

var sectionOrder = []string{
	"BIOS Information:",
	"System Information:",
	"Operating System Information:",
	"NSLookup for host-1:",
	"Ping to host-1:",
	"Tracert to host-1:",
	"CPU Usage: 42%",
	"Memory Usage: 67%",
	"Disk Usage:",
	"Active Directory Information for host-1:",
	TemperatureUnavailable,
	"Local Users:",
	"Local Groups:",
}

func assertSectionOrder(t *testing.T, messages []string) {
	t.Helper()
	last := -1
	for _, prefix := range sectionOrder {
		idx := indexOfPrefix(messages, prefix)
		require.NotEqual(t, -1, idx, "missing section %q", prefix)
		assert.Greater(t, idx, last, "section %q out of order", prefix)
		last = idx
	}
}

func TestPipeline_Run(t *testing.T) {
	sink := &memorySink{}
	ui := cli.NewMockUi()
	p := Pipeline{
		Stages:   All(),
		Sink:     sink,
		Progress: progress.New(ui),
	}

	ops, err := p.Run(testContext(t, healthySources("linux", "host-1")))
	require.NoError(t, err)
	require.Len(t, ops, len(All()))
	for _, o := range ops {
		assert.Equal(t, op.Success, o.Status, o.Identifier)
	}

	assertSectionOrder(t, sink.all())
	assert.Equal(t, -1, indexOfPrefix(sink.all(), "Battery"))
	assert.Empty(t, sink.messages(hclog.Error))

	assert.Equal(t, []string{
		"Status 10%: Logging Environment Information...",
		"Status 20%: Collecting local system information...",
		"Status 30%: Local system information collected.",
		"Status 40%: Running network diagnostics...",
		"Status 50%: Network diagnostics complete.",
		"Status 60%: Collecting CPU and memory usage...",
		"Status 65%: CPU and Memory usage collected.",
		"Status 70%: Collecting disk usage...",
		"Status 75%: Disk usage collected.",
		"Status 80%: Fetching Active Directory information...",
		"Status 85%: Active Directory info fetched.",
		"Status 90%: Collecting system health checks...",
		"Status 100%: Collecting local user and group information...",
	}, strings.Split(strings.TrimSpace(ui.OutputWriter.String()), "\n"))
}

func TestPipeline_RunParallelMatchesSequential(t *testing.T) {
	sequential := &memorySink{}
	_, err := Pipeline{Stages: All(), Sink: sequential}.Run(testContext(t, healthySources("linux", "host-1")))
	require.NoError(t, err)

	parallel := &memorySink{}
	ui := cli.NewMockUi()
	_, err = Pipeline{Stages: All(), Sink: parallel, Progress: progress.New(ui), Parallel: true}.Run(testContext(t, healthySources("linux", "host-1")))
	require.NoError(t, err)

	assert.Equal(t, sequential.all(), parallel.all())
	lines := strings.Split(strings.TrimSpace(ui.OutputWriter.String()), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "Status 10%: Logging Environment Information...", lines[0])
	assert.Equal(t, "Status 100%: Collecting local user and group information...", lines[12])
}

func TestPipeline_MissingCommandsDoNotStopTheRun(t *testing.T) {
	sources := healthySources("linux", "host-1")
	sources.commands = nil
	sink := &memorySink{}

	ops, err := Pipeline{Stages: All(), Sink: sink}.Run(testContext(t, sources))
	require.Error(t, err)
	require.Len(t, ops, len(All()))

	statuses := make(map[string]op.Status)
	for i, o := range ops {
		statuses[All()[i].Name] = o.Status
	}
	assert.Equal(t, map[string]op.Status{
		Environment: op.Success,
		Inventory:   op.Fail,
		Network:     op.Fail,
		Resources:   op.Success,
		Disk:        op.Success,
		Directory:   op.Fail,
		Health:      op.Success,
		Accounts:    op.Fail,
	}, statuses)

	messages := sink.all()
	assert.NotEqual(t, -1, indexOfPrefix(messages, "CPU Usage: 42%"))
	assert.NotEqual(t, -1, indexOfPrefix(messages, "Memory Usage: 67%"))
	assert.Len(t, sink.messages(hclog.Error), 3+3+1+2)
	assert.Contains(t, err.Error(), "stage accounts")
}

func TestPipeline_CanceledRunStillAttemptsEveryStage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sources := healthySources("linux", "host-1")
	sources.commands = nil
	rc := testContext(t, sources)
	rc.Ctx = ctx

	ops, err := Pipeline{Stages: All(), Sink: &memorySink{}}.Run(rc)
	require.Error(t, err)
	require.Len(t, ops, len(All()))
	assert.Equal(t, op.Canceled, ops[1].Status)
	assert.Len(t, sources.ran, 9)
}
