// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package diaglog

import (
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

var _ hclog.SinkAdapter = &Buffer{}

// Buffer holds a stage's entries, with the time they were logged, until they are flushed to the file. Stages
// running concurrently each log into their own Buffer so the file still reads in stage order.
type Buffer struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

func NewBuffer() *Buffer {
	return &Buffer{now: time.Now}
}

// Accept implements hclog.SinkAdapter. Entries below Info are dropped.
func (b *Buffer) Accept(_ string, level hclog.Level, msg string, args ...interface{}) {
	if level < hclog.Info {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, Entry{Time: b.now(), Level: level, Message: formatMessage(msg, args)})
}

// Entries returns a copy of the buffered entries in the order they were logged.
func (b *Buffer) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// FlushTo writes the buffered entries to w in order and empties the buffer. It stops at the first write error.
func (b *Buffer) FlushTo(w EntryWriter) error {
	b.mu.Lock()
	entries := b.entries
	b.entries = nil
	b.mu.Unlock()

	for _, e := range entries {
		if err := w.WriteEntry(e); err != nil {
			return err
		}
	}
	return nil
}
