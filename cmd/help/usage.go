// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package help

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/kr/text"
)

// maxLineLength is the maximum width of any line.
const maxLineLength int = 72

// EnvVar documents an environment variable a command reads.
type EnvVar struct {
	Name  string
	Usage string
}

// Usage renders a command's help: the usage text followed by the environment variables it honors.
func Usage(txt string, env []EnvVar) string {
	u := &Usager{
		Usage: txt,
		Env:   env,
	}
	return u.String()
}

type Usager struct {
	Usage string
	Env   []EnvVar
}

func (u *Usager) String() string {
	out := new(bytes.Buffer)

	// Write out the usage slug.
	out.WriteString(strings.TrimSpace(u.Usage))
	out.WriteString("\n")
	out.WriteString("\n")

	if len(u.Env) > 0 {
		printTitle(out, "Environment Variables")

		for _, e := range u.Env {
			printEnv(out, e)
		}
	}

	return strings.TrimRight(out.String(), "\n")
}

// printTitle prints a consistently-formatted title to the given writer.
func printTitle(w io.Writer, s string) {
	_, _ = fmt.Fprintf(w, "%s\n\n", s)
}

// printEnv prints a single environment variable to the given writer.
func printEnv(w io.Writer, e EnvVar) {
	_, _ = fmt.Fprintf(w, "  %s\n", e.Name)

	indented := wrapAtLength(e.Usage, 5)
	_, _ = fmt.Fprintf(w, "%s\n\n", indented)
}

// wrapAtLength wraps the given text at the maxLineLength, taking into account
// any provided left padding.
func wrapAtLength(s string, pad int) string {
	wrapped := text.Wrap(s, maxLineLength-pad)
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = strings.Repeat(" ", pad) + line
	}
	return strings.Join(lines, "\n")
}
