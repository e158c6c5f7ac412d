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
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/zhaoyanggh/taosx-data-format-bench/avroio"
	"github.com/zhaoyanggh/taosx-data-format-bench/field"
	"github.com/zhaoyanggh/taosx-data-format-bench/parquetio"
)

// Strategies of the column writer.
const (
	strategyBatched = "batched"
	strategyPerRow  = "per-row"
	strategyBoth    = "both"
)

// Config drives a run. Every key can be set in the YAML file given with
// --config and most can be overridden on the command line.
type Config struct {
	Types         []string `mapstructure:"types"`
	Rows          int      `mapstructure:"rows"`
	Seed          uint64   `mapstructure:"seed"`
	Dir           string   `mapstructure:"dir"`
	Strategy      string   `mapstructure:"strategy"`
	Jobs          int      `mapstructure:"jobs"`
	Report        string   `mapstructure:"report"`
	AvroCodecs    []string `mapstructure:"avro_codecs"`
	ParquetCodecs []string `mapstructure:"parquet_codecs"`
}

func defaultTypes() []string {
	names := make([]string, len(field.AllKinds))
	for i, k := range field.AllKinds {
		names[i] = k.String()
	}
	return names
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("types", defaultTypes())
	v.SetDefault("rows", 10000)
	v.SetDefault("seed", 1)
	v.SetDefault("dir", "")
	v.SetDefault("strategy", strategyBatched)
	v.SetDefault("jobs", 4)
	v.SetDefault("report", "")
	v.SetDefault("avro_codecs", []string{"null", "deflate", "snappy", "zstandard"})
	v.SetDefault("parquet_codecs", []string{"uncompressed", "snappy", "gzip", "brotli", "zstd", "lz4"})
}

// LoadConfig reads the YAML file at path on top of the defaults. An empty
// path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the values that would otherwise only fail deep in a run.
func (c *Config) Validate() error {
	if c.Rows < 0 {
		return fmt.Errorf("rows must not be negative, got %d", c.Rows)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	switch c.Strategy {
	case strategyBatched, strategyPerRow, strategyBoth:
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	if _, err := field.ParseSchema(c.Types); err != nil {
		return err
	}
	for _, name := range c.AvroCodecs {
		if _, err := avroio.ParseCodec(name); err != nil {
			return err
		}
	}
	for _, name := range c.ParquetCodecs {
		if _, err := parquetio.ParseCodec(name); err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
