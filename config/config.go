// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/mitchellh/go-homedir"

	"github.com/hashicorp/syscheck/redact"
)

const (
	// EnvConfigPath names an optional HCL configuration file. The file must end in .hcl (or .json for HCL's JSON
	// syntax).
	EnvConfigPath = "SYSCHECK_CONFIG"

	// EnvLogDir overrides the diagnostics directory, taking precedence over the configuration file.
	EnvLogDir = "SYSCHECK_LOG_DIR"

	DefaultCommandTimeout = 30 * time.Second
	DefaultTraceTimeout   = 2 * time.Minute
	DefaultCPUInterval    = time.Second

	windowsLogDir = "C:/logs"
	defaultLogDir = "~/logs"
)

// Config controls where a run writes and how long it waits on the host. It does not choose which checks run:
// every run performs all of them.
type Config struct {
	LogDir         string
	CommandTimeout time.Duration
	TraceTimeout   time.Duration
	CPUInterval    time.Duration
	// DiskPath is the volume whose usage is reported. Empty means the primary volume.
	DiskPath   string
	Parallel   bool
	Redactions []*redact.Redact
}

// HCL is the on-disk configuration format.
type HCL struct {
	LogDir         string   `hcl:"log_dir,optional"`
	CommandTimeout string   `hcl:"command_timeout,optional"`
	TraceTimeout   string   `hcl:"trace_timeout,optional"`
	CPUInterval    string   `hcl:"cpu_interval,optional"`
	DiskPath       string   `hcl:"disk_path,optional"`
	Parallel       bool     `hcl:"parallel,optional"`
	Redactions     []Redact `hcl:"redact,block"`
}

type Redact struct {
	Label   string `hcl:"name,label"`
	ID      string `hcl:"id,optional"`
	Match   string `hcl:"match"`
	Replace string `hcl:"replace,optional"`
}

const ExampleConfig = `log_dir         = "/var/log/syscheck"
command_timeout = "45s"
trace_timeout   = "3m"

redact "regex" {
  match   = "S-1-5-21-[0-9-]+"
  replace = "<SID>"
}

redact "literal" {
  match = "corp.example.com"
}
`

// Default returns the configuration used when nothing is set, for the given GOOS.
func Default(goos string) Config {
	logDir := defaultLogDir
	if goos == "windows" {
		logDir = windowsLogDir
	}
	return Config{
		LogDir:         logDir,
		CommandTimeout: DefaultCommandTimeout,
		TraceTimeout:   DefaultTraceTimeout,
		CPUInterval:    DefaultCPUInterval,
	}
}

// Parse takes a file path and decodes the file from disk into HCL types.
func Parse(path string) (HCL, error) {
	var h HCL
	err := hclsimple.DecodeFile(path, nil, &h)
	if err != nil {
		return HCL{}, err
	}
	return h, nil
}

// Load builds the run configuration from defaults, the optional file named by SYSCHECK_CONFIG, and environment
// overrides, in that order of increasing precedence.
func Load(getenv func(string) string, goos string) (Config, error) {
	cfg := Default(goos)

	if path := getenv(EnvConfigPath); path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return Config{}, ConfigError{path: path, err: err}
		}
		h, err := Parse(expanded)
		if err != nil {
			return Config{}, ConfigError{path: expanded, err: err}
		}
		if cfg, err = merge(cfg, h); err != nil {
			return Config{}, ConfigError{path: expanded, err: err}
		}
	}

	if dir := getenv(EnvLogDir); dir != "" {
		cfg.LogDir = dir
	}

	logDir, err := homedir.Expand(cfg.LogDir)
	if err != nil {
		return Config{}, ConfigError{err: fmt.Errorf("unable to expand log_dir=%s: %w", cfg.LogDir, err)}
	}
	cfg.LogDir = logDir

	return cfg, nil
}

// merge applies the attributes set in h on top of cfg.
func merge(cfg Config, h HCL) (Config, error) {
	if h.LogDir != "" {
		cfg.LogDir = h.LogDir
	}
	if h.DiskPath != "" {
		cfg.DiskPath = h.DiskPath
	}
	cfg.Parallel = h.Parallel

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"command_timeout", h.CommandTimeout, &cfg.CommandTimeout},
		{"trace_timeout", h.TraceTimeout, &cfg.TraceTimeout},
		{"cpu_interval", h.CPUInterval, &cfg.CPUInterval},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", d.name, err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("%s must be positive, %s=%s", d.name, d.name, d.raw)
		}
		*d.dst = parsed
	}

	redactions, err := buildRedactions(h.Redactions)
	if err != nil {
		return Config{}, err
	}
	cfg.Redactions = redact.Flatten(cfg.Redactions, redactions)

	return cfg, nil
}

// buildRedactions maps redact blocks to redactions. A "regex" block matches a regular expression, a "literal"
// block matches its text exactly.
func buildRedactions(blocks []Redact) ([]*redact.Redact, error) {
	redactions := make([]*redact.Redact, 0, len(blocks))
	for _, r := range blocks {
		var matcher string
		switch r.Label {
		case "regex":
			matcher = r.Match
		case "literal":
			matcher = regexp.QuoteMeta(r.Match)
		default:
			return nil, fmt.Errorf("invalid redact name, name=%s", r.Label)
		}
		red, err := redact.New(redact.Config{
			Matcher: matcher,
			ID:      r.ID,
			Replace: r.Replace,
		})
		if err != nil {
			return nil, fmt.Errorf("invalid redact %q: %w", r.Label, err)
		}
		redactions = append(redactions, red)
	}
	return redactions, nil
}

var _ error = ConfigError{}

type ConfigError struct {
	path string
	err  error
}

func (e ConfigError) Error() string {
	if e.path == "" {
		return fmt.Sprintf("configuration error: %s", e.err.Error())
	}
	return fmt.Sprintf("configuration error, path=%s, error=%s", e.path, e.err.Error())
}

func (e ConfigError) Unwrap() error {
	return e.err
}
