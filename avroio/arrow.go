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

package avroio

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	avroarrow "github.com/apache/arrow/go/v17/arrow/avro"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/zhaoyanggh/taosx-data-format-bench/field"
)

// ReadArrow converts the container read from r into Arrow records of at
// most chunk rows and hands each one to fn, which may be nil. A record is
// only valid until fn returns; retain it to keep it longer. It returns the
// Arrow schema derived from the container and the total number of rows.
func ReadArrow(r io.Reader, mem memory.Allocator, chunk int, fn func(arrow.Record) error) (*arrow.Schema, int64, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	if chunk < 1 {
		chunk = 1024
	}
	rdr, err := avroarrow.NewOCFReader(r, avroarrow.WithAllocator(mem), avroarrow.WithChunk(chunk))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", field.ErrCorruptContainer, err)
	}
	defer rdr.Release()
	defer rdr.Close()

	var total int64
	for rdr.Next() {
		rec := rdr.Record()
		total += rec.NumRows()
		if fn != nil {
			if err := fn(rec); err != nil {
				return rdr.Schema(), total, err
			}
		}
	}
	if err := rdr.Err(); err != nil {
		return rdr.Schema(), total, fmt.Errorf("%w: %w", field.ErrCorruptContainer, err)
	}
	return rdr.Schema(), total, nil
}
