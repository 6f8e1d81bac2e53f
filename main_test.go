// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"strings"
	"testing"

	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/syscheck/cmd/returns"
)

func TestNewCLI_DefaultsToRun(t *testing.T) {
	c := newCLI(cli.NewMockUi(), nil)
	assert.Equal(t, []string{"run"}, c.Args)
	assert.Contains(t, c.Commands, "run")
	assert.Contains(t, c.Commands, "version")
}

func TestNewCLI_Version(t *testing.T) {
	ui := cli.NewMockUi()
	c := newCLI(ui, []string{"version"})

	code, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, returns.Success, code)
	assert.True(t, strings.HasPrefix(ui.OutputWriter.String(), "syscheck v"))
}

func TestNewCLI_RunRejectsArguments(t *testing.T) {
	ui := cli.NewMockUi()
	c := newCLI(ui, []string{"run", "now"})

	code, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, returns.FlagParseError, code)
}
