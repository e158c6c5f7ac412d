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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Len(t, cfg.Types, 14)
	assert.Equal(t, 10000, cfg.Rows)
	assert.EqualValues(t, 1, cfg.Seed)
	assert.Equal(t, strategyBatched, cfg.Strategy)
	assert.Len(t, cfg.ParquetCodecs, 6)
	assert.Contains(t, cfg.ParquetCodecs, "lz4")
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dfcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
types: [int, bool, nchar]
rows: 25
seed: 7
strategy: both
avro_codecs: [deflate]
parquet_codecs: [snappy, zstd]
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"int", "bool", "nchar"}, cfg.Types)
	assert.Equal(t, 25, cfg.Rows)
	assert.EqualValues(t, 7, cfg.Seed)
	assert.Equal(t, []string{"deflate"}, cfg.AvroCodecs)
	assert.Equal(t, 4, cfg.Jobs)

	jobs := plan(cfg)
	require.Len(t, jobs, 5)
	assert.Equal(t, "avro-deflate", jobs[0].name())
	assert.Equal(t, "parquet-zstd-per-row", jobs[4].name())

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"rows", func(c *Config) { c.Rows = -1 }},
		{"jobs", func(c *Config) { c.Jobs = 0 }},
		{"strategy", func(c *Config) { c.Strategy = "random" }},
		{"types", func(c *Config) { c.Types = []string{"decimal"} }},
		{"avro codec", func(c *Config) { c.AvroCodecs = []string{"lzma"} }},
		{"parquet codec", func(c *Config) { c.ParquetCodecs = []string{"lzo"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig("")
			require.NoError(t, err)
			tt.edit(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestOverride(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.NoError(t, cfg.override("int, nchar", "12", "99", "out", strategyPerRow, "2", "r.json"))
	assert.Equal(t, []string{"int", "nchar"}, cfg.Types)
	assert.Equal(t, 12, cfg.Rows)
	assert.EqualValues(t, 99, cfg.Seed)
	assert.Equal(t, "out", cfg.Dir)
	assert.Equal(t, strategyPerRow, cfg.Strategy)
	assert.Equal(t, 2, cfg.Jobs)
	assert.Equal(t, "r.json", cfg.Report)

	assert.Error(t, cfg.override("", "many", "", "", "", "", ""))
	assert.Error(t, cfg.override("", "", "-1", "", "", "", ""))
}

func TestRunInMemory(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	cfg.Rows = 100
	cfg.Strategy = strategyBoth
	cfg.Report = filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, run(context.Background(), cfg, log.NewNopLogger()))

	doc, err := os.ReadFile(cfg.Report)
	require.NoError(t, err)
	artifacts := gjson.GetBytes(doc, "artifacts")
	require.True(t, artifacts.IsArray())
	assert.Len(t, artifacts.Array(), len(cfg.AvroCodecs)+2*len(cfg.ParquetCodecs))
	for _, a := range artifacts.Array() {
		assert.EqualValues(t, 100, a.Get("rows").Int(), a.Get("name").String())
		assert.Empty(t, a.Get("error").String())
		assert.Empty(t, a.Get("path").String())
	}
	assert.EqualValues(t, 100, gjson.GetBytes(doc, "rows").Int())
}

func TestRunToDirAndCount(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	cfg.Rows = 10
	cfg.Types = []string{"int", "bool", "nchar"}
	cfg.Dir = dir
	cfg.AvroCodecs = []string{"null"}
	cfg.ParquetCodecs = []string{"snappy"}

	require.NoError(t, run(context.Background(), cfg, log.NewNopLogger()))

	files := []string{
		filepath.Join(dir, "avro-null.avro"),
		filepath.Join(dir, "parquet-snappy-batched.parquet"),
	}
	var out strings.Builder
	require.NoError(t, count(&out, files, true))
	assert.Contains(t, out.String(), files[0]+"\tavro\t10")
	assert.Contains(t, out.String(), files[1]+"\tparquet\t10")
	assert.Contains(t, out.String(), "codec: null")
	assert.Contains(t, out.String(), "row groups: 1")

	out.Reset()
	assert.Error(t, count(&out, []string{filepath.Join(dir, "missing.parquet")}, false))
}
