// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"encoding/json"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp/syscheck/op"
)

// Runner runs things to get information.
type Runner interface {
	ID() string
	Run() op.Op
}

// Params takes a Runner and returns a map of its public fields
func Params(r Runner) map[string]interface{} {
	var inInterface map[string]interface{}
	inrec, err := json.Marshal(&r)
	if err != nil {
		hclog.L().Error("runner.Params failed to serialize params", "runner", r.ID(), "error", err)
	}
	_ = json.Unmarshal(inrec, &inInterface)
	return inInterface
}
