// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/cli"

	"github.com/hashicorp/syscheck/cmd/run"
	cmdversion "github.com/hashicorp/syscheck/cmd/version"
	"github.com/hashicorp/syscheck/version"
)

const appName = "syscheck"

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	ui := &cli.BasicUi{
		Reader:      os.Stdin,
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	c := newCLI(ui, args)
	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing CLI: %s\n", err.Error())
		return 1
	}
	return exitCode
}

// newCLI wires the subcommands. Invoking syscheck without a subcommand performs a run.
func newCLI(ui cli.Ui, args []string) *cli.CLI {
	if len(args) == 0 {
		args = []string{"run"}
	}

	c := cli.NewCLI(appName, version.GetVersion().SemanticVersion())
	c.Args = args
	c.Commands = map[string]cli.CommandFactory{
		"run":     run.CommandFactory(ui),
		"version": cmdversion.CommandFactory(ui),
	}
	return c
}
