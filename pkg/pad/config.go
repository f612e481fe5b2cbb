// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package pad

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// TENSORPAD_CONFIG is the environment variable with the default configuration, see ParseConfig for its format.
const TENSORPAD_CONFIG = "TENSORPAD_CONFIG"

// DefaultMinParallelSize is the default minimum number of output elements for the execution to be split
// over parallel workers.
const DefaultMinParallelSize = 32 * 1024

// Config controls how a Plan is executed. Its zero value runs sequentially.
type Config struct {
	// Parallelism is the maximum number of workers used to execute a pad: 0 (or 1) runs sequentially in
	// the calling goroutine, a negative value is unlimited.
	Parallelism int

	// MinParallelSize is the minimum number of output elements for the execution to be split over workers.
	// Smaller outputs always run sequentially.
	MinParallelSize int
}

// DefaultConfig returns the configuration used when no options are given.
//
// It is parsed from the environment variable TENSORPAD_CONFIG if set, and otherwise it uses runtime.NumCPU()
// workers for outputs of at least DefaultMinParallelSize elements.
// An invalid TENSORPAD_CONFIG is logged and ignored.
func DefaultConfig() Config {
	config := Config{
		Parallelism:     runtime.NumCPU(),
		MinParallelSize: DefaultMinParallelSize,
	}
	if envConfig, found := os.LookupEnv(TENSORPAD_CONFIG); found {
		parsed, err := config.Parse(envConfig)
		if err != nil {
			klog.Warningf("Ignoring invalid $%s=%q: %v", TENSORPAD_CONFIG, envConfig, err)
			return config
		}
		config = parsed
	}
	return config
}

// Parse returns a copy of the config updated by the configuration string, a comma-separated list of
// "key=value" entries. The keys are:
//
//   - "parallelism": number of workers, 0 for sequential or -1 for unlimited.
//   - "min_parallel_size": minimum number of output elements to use parallelism.
//
// Example: "parallelism=4,min_parallel_size=4096".
func (c Config) Parse(config string) (Config, error) {
	for _, part := range strings.Split(config, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			return c, errors.Errorf("invalid configuration %q: expected key=value, got %q", config, part)
		}
		key = strings.TrimSpace(key)
		intValue, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return c, errors.Wrapf(err, "invalid configuration %q: value for %q must be an integer", config, key)
		}
		switch key {
		case "parallelism":
			c.Parallelism = intValue
		case "min_parallel_size":
			if intValue < 0 {
				return c, errors.Errorf("invalid configuration %q: min_parallel_size must be >= 0", config)
			}
			c.MinParallelSize = intValue
		default:
			return c, errors.Errorf("invalid configuration %q: unknown key %q", config, key)
		}
	}
	return c, nil
}

// String returns the configuration in the format accepted by Parse.
func (c Config) String() string {
	return "parallelism=" + strconv.Itoa(c.Parallelism) + ",min_parallel_size=" + strconv.Itoa(c.MinParallelSize)
}

// Option modifies the Config used by Compile.
type Option func(c *Config)

// WithConfig replaces the whole configuration.
func WithConfig(config Config) Option {
	return func(c *Config) { *c = config }
}

// WithParallelism sets the maximum number of parallel workers: 0 (or 1) for sequential execution,
// negative for unlimited.
func WithParallelism(parallelism int) Option {
	return func(c *Config) { c.Parallelism = parallelism }
}

// WithMinParallelSize sets the minimum number of output elements for the execution to use parallel workers.
func WithMinParallelSize(minSize int) Option {
	return func(c *Config) { c.MinParallelSize = minSize }
}
