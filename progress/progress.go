// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package progress

import (
	"fmt"

	"github.com/mitchellh/cli"
)

// Reporter prints run progress to the console. It never writes to the log file.
type Reporter struct {
	ui cli.Ui
}

func New(ui cli.Ui) *Reporter {
	return &Reporter{ui: ui}
}

// Report prints "Status {pct}%: {msg}". pct is clamped to 0..100.
func (r *Reporter) Report(pct int, msg string) {
	if r == nil || r.ui == nil {
		return
	}
	r.ui.Output(Line(pct, msg))
}

// Line formats a progress line.
func Line(pct int, msg string) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return fmt.Sprintf("Status %d%%: %s", pct, msg)
}
