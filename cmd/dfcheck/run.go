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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/tidwall/sjson"
	"github.com/zhaoyanggh/taosx-data-format-bench/avroio"
	"github.com/zhaoyanggh/taosx-data-format-bench/field"
	"github.com/zhaoyanggh/taosx-data-format-bench/internal/datagen"
	"github.com/zhaoyanggh/taosx-data-format-bench/parquetio"
	"github.com/zhaoyanggh/taosx-data-format-bench/verify"
	"golang.org/x/sync/errgroup"
)

// job is one artifact to write and verify.
type job struct {
	format   verify.Format
	codec    string
	strategy string
}

func (j job) name() string {
	if j.format == verify.Parquet {
		return fmt.Sprintf("%s-%s-%s", j.format, j.codec, j.strategy)
	}
	return fmt.Sprintf("%s-%s", j.format, j.codec)
}

type result struct {
	Name     string `json:"name"`
	Format   string `json:"format"`
	Codec    string `json:"codec"`
	Strategy string `json:"strategy,omitempty"`
	Path     string `json:"path,omitempty"`
	Rows     int64  `json:"rows"`
	Bytes    int64  `json:"bytes"`
	Digest   string `json:"digest"`
	Error    string `json:"error,omitempty"`
}

func plan(cfg *Config) []job {
	var jobs []job
	for _, c := range cfg.AvroCodecs {
		jobs = append(jobs, job{format: verify.Avro, codec: c})
	}
	strategies := []string{cfg.Strategy}
	if cfg.Strategy == strategyBoth {
		strategies = []string{strategyBatched, strategyPerRow}
	}
	for _, s := range strategies {
		for _, c := range cfg.ParquetCodecs {
			jobs = append(jobs, job{format: verify.Parquet, codec: c, strategy: s})
		}
	}
	return jobs
}

// dataset is the generated input shared read-only by every job.
type dataset struct {
	fields  *field.Schema
	avro    *avroio.Schema
	parquet *parquetio.Schema
	rows    []field.Row
	cols    []field.Column
}

func newDataset(cfg *Config) (*dataset, error) {
	sc, err := field.ParseSchema(cfg.Types)
	if err != nil {
		return nil, err
	}
	asc, err := avroio.BuildSchema(sc)
	if err != nil {
		return nil, err
	}
	psc, err := parquetio.BuildSchema(sc)
	if err != nil {
		return nil, err
	}
	rows, cols := datagen.New(cfg.Seed).Generate(sc, cfg.Rows)
	return &dataset{fields: sc, avro: asc, parquet: psc, rows: rows, cols: cols}, nil
}

// encode writes the artifact of j into memory, or into dir when set, and
// returns its location and bytes.
func (d *dataset) encode(j job, dir string) (path string, data []byte, err error) {
	if dir != "" {
		path = filepath.Join(dir, j.name()+j.format.Ext())
	}
	switch j.format {
	case verify.Avro:
		codec, _ := avroio.ParseCodec(j.codec)
		if path != "" {
			err = avroio.WriteFile(path, d.avro, d.rows, codec)
		} else {
			data, err = avroio.EncodeToBuffer(d.avro, d.rows, codec)
		}
	case verify.Parquet:
		codec, _ := parquetio.ParseCodec(j.codec)
		switch {
		case j.strategy == strategyPerRow && path != "":
			err = parquetio.WriteRowsToFile(path, d.parquet, d.rows, codec)
		case j.strategy == strategyPerRow:
			data, err = parquetio.EncodeRowsToBuffer(d.parquet, d.rows, codec)
		case path != "":
			err = parquetio.WriteColumnsToFile(path, d.parquet, d.cols, codec)
		default:
			data, err = parquetio.EncodeColumnsToBuffer(d.parquet, d.cols, codec)
		}
	}
	if err != nil || path == "" {
		return path, data, err
	}
	if data, err = os.ReadFile(path); err != nil {
		return path, nil, field.IOError("read", path, err)
	}
	return path, data, nil
}

func (d *dataset) execute(j job, dir string) result {
	res := result{Name: j.name(), Format: j.format.String(), Codec: j.codec, Strategy: j.strategy}
	path, data, err := d.encode(j, dir)
	res.Path = path
	if err == nil {
		res.Bytes = int64(len(data))
		res.Digest = fmt.Sprintf("%016x", verify.Digest(data))
		if path != "" {
			err = verify.CheckFile(path, int64(len(d.rows)))
		} else {
			err = verify.CheckBuffer(data, int64(len(d.rows)))
		}
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Rows = int64(len(d.rows))
	return res
}

var errVerifyFailed = errors.New("verification failed")

// run writes every artifact the config asks for and checks that each one
// decodes to the generated row count.
func run(ctx context.Context, cfg *Config, logger log.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return field.IOError("mkdir", cfg.Dir, err)
		}
	}
	runID := uuid.NewString()
	logger = log.With(logger, "run", runID)

	d, err := newDataset(cfg)
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "generated dataset", "rows", len(d.rows), "columns", d.fields.Len(), "seed", cfg.Seed)

	jobs := plan(cfg)
	results := make([]result, len(jobs))
	var failed atomic.Int32

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := d.execute(j, cfg.Dir)
			if res.Error != "" {
				failed.Add(1)
				level.Error(logger).Log("msg", "artifact failed", "artifact", res.Name, "err", res.Error)
			} else {
				level.Info(logger).Log("msg", "artifact verified", "artifact", res.Name, "rows", res.Rows, "bytes", res.Bytes, "digest", res.Digest)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if cfg.Report != "" {
		doc, err := report(runID, cfg, d.fields, results)
		if err != nil {
			return err
		}
		if err := os.WriteFile(cfg.Report, doc, 0o644); err != nil {
			return field.IOError("write", cfg.Report, err)
		}
	}
	for _, res := range results {
		fmt.Printf("%-32s %10d rows %12d bytes  %s\n", res.Name, res.Rows, res.Bytes, res.Digest)
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%w: %d of %d artifacts", errVerifyFailed, n, len(results))
	}
	return nil
}

// report renders the run summary as a JSON document.
func report(runID string, cfg *Config, sc *field.Schema, results []result) ([]byte, error) {
	doc := []byte(`{}`)
	var err error
	set := func(path string, v interface{}) {
		if err == nil {
			doc, err = sjson.SetBytes(doc, path, v)
		}
	}
	set("run", runID)
	set("seed", cfg.Seed)
	set("rows", cfg.Rows)
	set("schema", sc.String())
	for _, res := range results {
		set("artifacts.-1", res)
	}
	return doc, err
}
