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

package parquetio

import (
	"bytes"
	"fmt"

	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/zhaoyanggh/taosx-data-format-bench/field"
)

// readBatchSize bounds the number of levels decoded per ReadBatch call.
const readBatchSize = 4096

// writeValues dispatches on the physical type of cw and writes every value
// in vals at the present definition level. vals must already be checked
// against the column's kind.
func writeValues(cw file.ColumnChunkWriter, vals []field.Field) error {
	defLvls := make([]int16, len(vals))
	for i := range defLvls {
		defLvls[i] = presentLevel
	}

	var err error
	switch w := cw.(type) {
	case *file.BooleanColumnChunkWriter:
		out := make([]bool, len(vals))
		for i, v := range vals {
			out[i] = v.Bool()
		}
		_, err = w.WriteBatch(out, defLvls, nil)
	case *file.Int32ColumnChunkWriter:
		out := make([]int32, len(vals))
		for i, v := range vals {
			out[i] = int32Of(v)
		}
		_, err = w.WriteBatch(out, defLvls, nil)
	case *file.Int64ColumnChunkWriter:
		out := make([]int64, len(vals))
		for i, v := range vals {
			out[i] = int64Of(v)
		}
		_, err = w.WriteBatch(out, defLvls, nil)
	case *file.Float32ColumnChunkWriter:
		out := make([]float32, len(vals))
		for i, v := range vals {
			out[i] = v.Float()
		}
		_, err = w.WriteBatch(out, defLvls, nil)
	case *file.Float64ColumnChunkWriter:
		out := make([]float64, len(vals))
		for i, v := range vals {
			out[i] = v.Double()
		}
		_, err = w.WriteBatch(out, defLvls, nil)
	case *file.ByteArrayColumnChunkWriter:
		out := make([]parquet.ByteArray, len(vals))
		for i, v := range vals {
			if v.Kind() == field.NCHAR {
				out[i] = parquet.ByteArray(v.NChar())
			} else {
				out[i] = parquet.ByteArray(v.Binary())
			}
		}
		_, err = w.WriteBatch(out, defLvls, nil)
	default:
		return fmt.Errorf("%w: column writer %T", field.ErrUnexpectedPhysicalType, cw)
	}
	return err
}

func int32Of(v field.Field) int32 {
	switch v.Kind() {
	case field.TINYINT:
		return int32(v.TinyInt())
	case field.UTINYINT:
		return int32(v.UTinyInt())
	case field.SMALLINT:
		return int32(v.SmallInt())
	case field.USMALLINT:
		return int32(v.USmallInt())
	case field.UINT:
		return int32(v.UInt())
	}
	return v.Int()
}

func int64Of(v field.Field) int64 {
	switch v.Kind() {
	case field.UBIGINT:
		return int64(v.UBigInt())
	case field.TIMESTAMP:
		ts, _ := v.Timestamp()
		return ts
	}
	return v.BigInt()
}

// batchReader is implemented by every typed column chunk reader.
type batchReader[T any] interface {
	HasNext() bool
	ReadBatch(batchSize int64, values []T, defLvls, repLvls []int16) (int64, int, error)
}

// drain reads every level of a column chunk. When fn is not nil it is
// called per level with the value, or with ok false for a missing value.
// It returns the number of levels read.
func drain[T any](r batchReader[T], fn func(v T, ok bool)) (int64, error) {
	var (
		values  = make([]T, readBatchSize)
		defLvls = make([]int16, readBatchSize)
		n       int64
	)
	for r.HasNext() {
		total, read, err := r.ReadBatch(readBatchSize, values, defLvls, nil)
		if err != nil {
			return n, err
		}
		if total == 0 {
			break
		}
		if fn != nil {
			vi := 0
			for _, lvl := range defLvls[:total] {
				if lvl == presentLevel && vi < read {
					fn(values[vi], true)
					vi++
				} else {
					var zero T
					fn(zero, false)
				}
			}
		}
		n += total
	}
	return n, nil
}

// countLevels returns the number of levels in a column chunk without
// materializing values.
func countLevels(cr file.ColumnChunkReader) (int64, error) {
	switch r := cr.(type) {
	case *file.BooleanColumnChunkReader:
		return drain[bool](r, nil)
	case *file.Int32ColumnChunkReader:
		return drain[int32](r, nil)
	case *file.Int64ColumnChunkReader:
		return drain[int64](r, nil)
	case *file.Float32ColumnChunkReader:
		return drain[float32](r, nil)
	case *file.Float64ColumnChunkReader:
		return drain[float64](r, nil)
	case *file.ByteArrayColumnChunkReader:
		return drain[parquet.ByteArray](r, nil)
	}
	return 0, fmt.Errorf("%w: column reader %T", field.ErrUnexpectedPhysicalType, cr)
}

// readValues decodes a column chunk of entry e into out. Missing values
// come back as Null.
func readValues(cr file.ColumnChunkReader, e field.Entry, out []field.Field) ([]field.Field, error) {
	var err error
	null := func() { out = append(out, field.Null()) }
	switch r := cr.(type) {
	case *file.BooleanColumnChunkReader:
		_, err = drain[bool](r, func(v bool, ok bool) {
			if !ok {
				null()
				return
			}
			out = append(out, field.Bool(v))
		})
	case *file.Int32ColumnChunkReader:
		_, err = drain[int32](r, func(v int32, ok bool) {
			if !ok {
				null()
				return
			}
			out = append(out, fromInt32(e.Kind, v))
		})
	case *file.Int64ColumnChunkReader:
		_, err = drain[int64](r, func(v int64, ok bool) {
			if !ok {
				null()
				return
			}
			switch e.Kind {
			case field.UBIGINT:
				out = append(out, field.UBigInt(uint64(v)))
			case field.TIMESTAMP:
				out = append(out, field.Timestamp(v, e.Precision))
			default:
				out = append(out, field.BigInt(v))
			}
		})
	case *file.Float32ColumnChunkReader:
		_, err = drain[float32](r, func(v float32, ok bool) {
			if !ok {
				null()
				return
			}
			out = append(out, field.Float(v))
		})
	case *file.Float64ColumnChunkReader:
		_, err = drain[float64](r, func(v float64, ok bool) {
			if !ok {
				null()
				return
			}
			out = append(out, field.Double(v))
		})
	case *file.ByteArrayColumnChunkReader:
		_, err = drain[parquet.ByteArray](r, func(v parquet.ByteArray, ok bool) {
			if !ok {
				null()
				return
			}
			// values alias the page buffer
			if e.Kind == field.NCHAR {
				out = append(out, field.NChar(string(v)))
			} else {
				out = append(out, field.Binary(bytes.Clone(v)))
			}
		})
	default:
		return out, fmt.Errorf("%w: column reader %T", field.ErrUnexpectedPhysicalType, cr)
	}
	return out, err
}

func fromInt32(k field.Kind, v int32) field.Field {
	switch k {
	case field.TINYINT:
		return field.TinyInt(int8(v))
	case field.UTINYINT:
		return field.UTinyInt(uint8(v))
	case field.SMALLINT:
		return field.SmallInt(int16(v))
	case field.USMALLINT:
		return field.USmallInt(uint16(v))
	case field.UINT:
		return field.UInt(uint32(v))
	}
	return field.Int(v)
}
