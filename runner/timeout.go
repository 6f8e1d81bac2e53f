// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"encoding/json"
	"time"
)

// Timeout is a time.Duration that renders in JSON the way Go parses durations ("30s", "2m0s"),
// which reads better in runner params than a count of nanoseconds.
type Timeout time.Duration

func (t Timeout) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(t).String())
}

func (t Timeout) String() string {
	return time.Duration(t).String()
}
