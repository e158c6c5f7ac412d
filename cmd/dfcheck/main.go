// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/docopt/docopt-go"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const usage = `Data format check.
Writes seeded datasets as Avro and Parquet artifacts and verifies that each
one decodes to the number of rows written.
Usage:
  dfcheck -h | --help
  dfcheck run [--config=FILE] [--types=TYPES] [--rows=N] [--seed=SEED]
              [--dir=DIR] [--strategy=STRATEGY] [--jobs=N] [--report=FILE] [--debug]
  dfcheck count [--verbose] <file>...
Options:
  -h --help              Show this screen.
  --config=FILE          YAML config file, flags override its values.
  --types=TYPES          Comma delimited column types, default all fourteen.
  --rows=N               Number of rows to generate.
  --seed=SEED            Seed of the data generator.
  --dir=DIR              Write artifacts into DIR instead of memory.
  --strategy=STRATEGY    Parquet write strategy: batched, per-row or both.
  --jobs=N               Number of artifacts written concurrently.
  --report=FILE          Write a JSON summary of the run to FILE.
  --debug                Log at debug level.
  --verbose              Print the container summary of each file.`

func main() {
	opts, _ := docopt.ParseDoc(usage)
	var args struct {
		Help     bool
		Run      bool
		Count    bool
		Config   string
		Types    string
		Rows     string
		Seed     string
		Dir      string
		Strategy string
		Jobs     string
		Report   string
		Debug    bool
		Verbose  bool
		File     []string `docopt:"<file>"`
	}
	if err := opts.Bind(&args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	if args.Debug {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	var err error
	switch {
	case args.Count:
		err = count(os.Stdout, args.File, args.Verbose)
	case args.Run:
		var cfg *Config
		if cfg, err = LoadConfig(args.Config); err == nil {
			if err = cfg.override(args.Types, args.Rows, args.Seed, args.Dir, args.Strategy, args.Jobs, args.Report); err == nil {
				err = run(context.Background(), cfg, logger)
			}
		}
	}
	if err != nil {
		level.Error(logger).Log("msg", "dfcheck failed", "err", err)
		os.Exit(1)
	}
}

// override applies the command line values that were given.
func (c *Config) override(types, rows, seed, dir, strategy, jobs, report string) error {
	if types != "" {
		c.Types = splitList(types)
	}
	if rows != "" {
		n, err := strconv.Atoi(rows)
		if err != nil {
			return fmt.Errorf("--rows: %w", err)
		}
		c.Rows = n
	}
	if seed != "" {
		s, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return fmt.Errorf("--seed: %w", err)
		}
		c.Seed = s
	}
	if jobs != "" {
		n, err := strconv.Atoi(jobs)
		if err != nil {
			return fmt.Errorf("--jobs: %w", err)
		}
		c.Jobs = n
	}
	if dir != "" {
		c.Dir = dir
	}
	if strategy != "" {
		c.Strategy = strategy
	}
	if report != "" {
		c.Report = report
	}
	return nil
}
