// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/hashicorp/syscheck/op"
)

// runCommand runs command through the run's Sources. A command that cannot even be configured yields a failed op.
func runCommand(rc *Context, command string, timeout time.Duration) op.Op {
	r, err := rc.Sources.Command(rc.Ctx, command, timeout)
	if err != nil {
		now := time.Now()
		return op.New(command, nil, op.Fail, err, nil, now, now)
	}
	return r.Run()
}

// commandText returns the text a command printed, which a command that exited non-zero may still have.
func commandText(o op.Op) (string, bool) {
	text, ok := o.Result.(string)
	if !ok {
		return "", false
	}
	return text, o.Status == op.Success || text != ""
}

// opError is the error to report for an op that did not succeed.
func opError(o op.Op) error {
	if o.Error != nil {
		return o.Error
	}
	return errors.New(string(o.Status))
}

// section renders a labelled block of command output.
func section(header, text string) string {
	return header + ":\n" + text
}

// formatNumber renders v with one decimal place at most, dropping a trailing ".0" (42 -> "42", 12.5 -> "12.5").
func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

// formatGB renders a size in gigabytes with two decimal places.
func formatGB(gb float64) string {
	return fmt.Sprintf("%.2f", gb)
}
