// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package diaglog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp/syscheck/redact"
)

// SinkConfig describes where a run's log file goes.
type SinkConfig struct {
	// Dir is the diagnostics directory. It is created, with parents, if missing.
	Dir string

	// Hostname and Time name the file.
	Hostname string
	Time     time.Time

	// Redactions are applied to every message before it is written.
	Redactions []*redact.Redact
}

var (
	_ hclog.SinkAdapter = &Sink{}
	_ EntryWriter       = &Sink{}
)

// Sink is the append-only log file of one run. It is safe for concurrent use.
type Sink struct {
	mu         sync.Mutex
	path       string
	file       *os.File
	redactions []*redact.Redact
	level      hclog.Level
	now        func() time.Time
	err        error
}

// Open creates the diagnostics directory if needed and opens the run's log file for appending.
func Open(cfg SinkConfig) (*Sink, error) {
	if cfg.Dir == "" {
		return nil, SinkError{op: "resolve directory", path: cfg.Dir, err: fmt.Errorf("log directory must not be empty")}
	}
	if cfg.Hostname == "" {
		return nil, SinkError{op: "name file", path: cfg.Dir, err: fmt.Errorf("hostname must not be empty")}
	}
	if cfg.Time.IsZero() {
		cfg.Time = time.Now()
	}

	if err := os.MkdirAll(cfg.Dir, directoryPerms); err != nil {
		return nil, SinkError{op: "create directory", path: cfg.Dir, err: err}
	}

	path := Path(cfg.Dir, cfg.Hostname, cfg.Time)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerms)
	if err != nil {
		return nil, SinkError{op: "open file", path: path, err: err}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return &Sink{
		path:       abs,
		file:       f,
		redactions: cfg.Redactions,
		level:      hclog.Info,
		now:        time.Now,
	}, nil
}

// Path is the absolute path of the log file.
func (s *Sink) Path() string {
	return s.path
}

// Accept implements hclog.SinkAdapter. Entries below Info are dropped.
func (s *Sink) Accept(_ string, level hclog.Level, msg string, args ...interface{}) {
	if level < s.level {
		return
	}
	_ = s.WriteEntry(Entry{Time: s.now(), Level: level, Message: formatMessage(msg, args)})
}

// WriteEntry redacts and appends a single entry. The first write error is kept and reported by Err and Close.
func (s *Sink) WriteEntry(e Entry) error {
	msg, err := redact.String(e.Message, s.redactions)
	if err != nil {
		return s.fail(err)
	}
	e.Message = msg

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return os.ErrClosed
	}
	if _, err := s.file.WriteString(e.Format()); err != nil {
		if s.err == nil {
			s.err = SinkError{op: "write", path: s.path, err: err}
		}
		return s.err
	}
	return nil
}

func (s *Sink) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = SinkError{op: "redact", path: s.path, err: err}
	}
	return s.err
}

// Err returns the first error encountered while writing, if any.
func (s *Sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close syncs and closes the file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return s.err
	}
	f := s.file
	s.file = nil
	if err := f.Sync(); err != nil && s.err == nil {
		s.err = SinkError{op: "sync", path: s.path, err: err}
	}
	if err := f.Close(); err != nil && s.err == nil {
		s.err = SinkError{op: "close", path: s.path, err: err}
	}
	return s.err
}

var _ error = SinkError{}

// SinkError is returned when the log file cannot be created or written.
type SinkError struct {
	op   string
	path string
	err  error
}

func (e SinkError) Error() string {
	return fmt.Sprintf("log sink: unable to %s, path=%s, error=%s", e.op, e.path, e.err.Error())
}

func (e SinkError) Unwrap() error {
	return e.err
}
