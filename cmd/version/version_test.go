// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package version

import (
	"strings"
	"testing"

	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"

	"github.com/hashicorp/syscheck/cmd/returns"
)

func TestRun(t *testing.T) {
	ui := cli.NewMockUi()
	c := New(ui)

	assert.Equal(t, returns.Success, c.Run(nil))
	assert.True(t, strings.HasPrefix(ui.OutputWriter.String(), "syscheck v"))
	assert.NotEmpty(t, c.Synopsis())
	assert.Equal(t, "Usage: syscheck version", c.Help())
}
