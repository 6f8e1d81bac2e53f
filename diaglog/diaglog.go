// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package diaglog owns the run's log file: where it lives, how its lines look, and how stage loggers reach it.
//
// Stage code logs through an hclog.InterceptLogger. The file receives every entry at Info and above through a
// registered hclog.SinkAdapter, either the Sink itself or a Buffer that is later flushed into the Sink, while the
// console side of the logger stays at whatever LOG_LEVEL asks for.
package diaglog

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// FileTimeFormat is the timestamp layout used in log file names.
	FileTimeFormat = "2006-01-02_15-04-05"

	// LineTimeFormat is the timestamp layout at the start of every log line.
	LineTimeFormat = "2006-01-02 15:04:05,000"

	directoryPerms = 0755
	filePerms      = 0644
)

// FileName returns "<hostname>-<YYYY-MM-DD_HH-MM-SS>.log".
func FileName(hostname string, t time.Time) string {
	return fmt.Sprintf("%s-%s.log", hostname, t.Format(FileTimeFormat))
}

// Path returns the log file path for a run on hostname started at t.
func Path(root, hostname string, t time.Time) string {
	return filepath.Join(root, FileName(hostname, t))
}

// Entry is a single log line.
type Entry struct {
	Time    time.Time
	Level   hclog.Level
	Message string
}

// Format renders the entry as "timestamp - message". Errors and warnings carry their level between the
// timestamp and the message; informational lines do not.
func (e Entry) Format() string {
	var prefix string
	switch {
	case e.Level >= hclog.Error:
		prefix = "ERROR - "
	case e.Level == hclog.Warn:
		prefix = "WARNING - "
	}
	return e.Time.Format(LineTimeFormat) + " - " + prefix + e.Message + "\n"
}

// EntryWriter accepts finished entries.
type EntryWriter interface {
	WriteEntry(Entry) error
}

// NewLogger returns a logger named name that prints to console at consoleLevel and forwards every entry to sink.
func NewLogger(name string, console io.Writer, consoleLevel hclog.Level, sink hclog.SinkAdapter) hclog.InterceptLogger {
	if console == nil {
		console = io.Discard
	}
	l := hclog.NewInterceptLogger(&hclog.LoggerOptions{
		Name:   name,
		Output: console,
		Level:  consoleLevel,
	})
	l.RegisterSink(sink)
	return l
}

// formatMessage appends hclog key/value args to msg as " key=value" pairs.
func formatMessage(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			fmt.Fprintf(&sb, " EXTRA_VALUE_AT_END=%v", args[i])
			break
		}
		fmt.Fprintf(&sb, " %v=%v", args[i], args[i+1])
	}
	return sb.String()
}
