// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package redact

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const DefaultReplace = "<REDACTED>"

// Config holds what a Redact needs to be built. Matcher is required; ID and Replace are optional.
type Config struct {
	Matcher string
	ID      string
	Replace string
}

type Redact struct {
	ID      string `json:"ID"`
	matcher *regexp.Regexp
	Replace string `json:"replace"`
}

// New takes a Config and returns a compiled and ready-to-use redactor.
func New(cfg Config) (*Redact, error) {
	if cfg.Matcher == "" {
		return nil, fmt.Errorf("redaction matcher must not be empty")
	}
	r, err := regexp.Compile(cfg.Matcher)
	if err != nil {
		return nil, err
	}
	id := cfg.ID
	if id == "" {
		genID := md5.Sum([]byte(cfg.Matcher))
		id = fmt.Sprintf("%x", genID)
	}
	replace := cfg.Replace
	if replace == "" {
		replace = DefaultReplace
	}
	return &Redact{id, r, replace}, nil
}

func (x Redact) Apply(w io.Writer, r io.Reader) error {
	return ApplyMany([]*Redact{&x}, w, r)
}

// ApplyMany takes a slice of redactions and a writer + reader, reading everything in and applying redactions in
// sequential order before writing. Therefore, each Redact that appears earlier in the list takes precedence over later
// Redacts. It is possible for redactions to collide with one another if a matcher can match with the Replace string
// of an earlier Redact.
func ApplyMany(redactions []*Redact, w io.Writer, r io.Reader) error {
	bts, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	for _, redact := range redactions {
		if len(bts) == 0 {
			break
		}
		bts = redact.matcher.ReplaceAll(bts, []byte(redact.Replace))
	}
	_, err = w.Write(bts)
	return err
}

// Bytes takes a byte slice and a slice of redactions, and returns the redacted bytes.
func Bytes(b []byte, redactions []*Redact) ([]byte, error) {
	if len(redactions) == 0 {
		return b, nil
	}
	buf := new(bytes.Buffer)
	if err := ApplyMany(redactions, buf, bytes.NewReader(b)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String takes a string result and a slice of redactions, and wraps it with a reader and writer to apply the
// redactions, returning a string back.
func String(result string, redactions []*Redact) (string, error) {
	if len(redactions) == 0 {
		return result, nil
	}
	buf := new(bytes.Buffer)
	if err := ApplyMany(redactions, buf, strings.NewReader(result)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Flatten joins any number of redaction slices into one, in argument order.
func Flatten(redactions ...[]*Redact) []*Redact {
	flattened := make([]*Redact, 0)
	for _, r := range redactions {
		flattened = append(flattened, r...)
	}
	return flattened
}
