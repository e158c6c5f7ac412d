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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"github.com/zhaoyanggh/taosx-data-format-bench/field"
)

func openReader(r parquet.ReaderAtSeeker, mem memory.Allocator) (rdr *file.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			rdr, err = nil, fmt.Errorf("%w: parquet footer: %v", field.ErrCorruptContainer, p)
		}
	}()
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	rdr, err = file.NewParquetReader(r, file.WithReadProps(parquet.NewReaderProperties(mem)))
	if err != nil {
		return nil, fmt.Errorf("%w: parquet footer: %w", field.ErrCorruptContainer, err)
	}
	return rdr, nil
}

// ReadRowCount decodes every column chunk of every row group in r and
// returns the total number of rows. A chunk whose level count disagrees
// with its row group, or a row total that disagrees with the footer, is
// reported as ErrCorruptContainer.
func ReadRowCount(r parquet.ReaderAtSeeker) (n int64, err error) {
	rdr, err := openReader(r, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if p := recover(); p != nil {
			n, err = 0, fmt.Errorf("%w: %v", field.ErrCorruptContainer, p)
		}
	}()

	for i := 0; i < rdr.NumRowGroups(); i++ {
		rg := rdr.RowGroup(i)
		want := rg.NumRows()
		for j := 0; j < rg.NumColumns(); j++ {
			cr, err := rg.Column(j)
			if err != nil {
				return 0, fmt.Errorf("%w: row group %d column %d: %w", field.ErrCorruptContainer, i, j, err)
			}
			got, err := countLevels(cr)
			if err != nil {
				return 0, fmt.Errorf("%w: row group %d column %d: %w", field.ErrCorruptContainer, i, j, err)
			}
			if got != want {
				return 0, fmt.Errorf("%w: row group %d column %d has %d values, want %d",
					field.ErrCorruptContainer, i, j, got, want)
			}
		}
		n += want
	}
	if n != rdr.NumRows() {
		return 0, fmt.Errorf("%w: row groups hold %d rows, footer says %d", field.ErrCorruptContainer, n, rdr.NumRows())
	}
	return n, nil
}

// ReadRowCountFromBuffer counts the rows of an in-memory parquet file.
func ReadRowCountFromBuffer(buf []byte) (int64, error) {
	return ReadRowCount(bytes.NewReader(buf))
}

// ReadRowCountFromFile counts the rows of the parquet file at path.
func ReadRowCountFromFile(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, field.IOError("open", path, err)
	}
	defer f.Close()
	return ReadRowCount(f)
}

// ReadColumns decodes r back into its logical schema and columns. Row
// groups are concatenated in file order.
func ReadColumns(r parquet.ReaderAtSeeker) (sc *field.Schema, cols []field.Column, err error) {
	rdr, err := openReader(r, nil)
	if err != nil {
		return nil, nil, err
	}
	sc, err = FieldsOf(rdr.MetaData().Schema)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if p := recover(); p != nil {
			sc, cols, err = nil, nil, fmt.Errorf("%w: %v", field.ErrCorruptContainer, p)
		}
	}()

	cols = make([]field.Column, sc.Len())
	for j := range cols {
		cols[j] = field.Column{Kind: sc.Entry(j).Kind, Values: make([]field.Field, 0, rdr.NumRows())}
	}
	for i := 0; i < rdr.NumRowGroups(); i++ {
		rg := rdr.RowGroup(i)
		for j := range cols {
			cr, err := rg.Column(j)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: row group %d column %d: %w", field.ErrCorruptContainer, i, j, err)
			}
			if cols[j].Values, err = readValues(cr, sc.Entry(j), cols[j].Values); err != nil {
				return nil, nil, fmt.Errorf("%w: row group %d column %d: %w", field.ErrCorruptContainer, i, j, err)
			}
		}
	}
	return sc, cols, nil
}

// ReadColumnsFromFile is ReadColumns for the parquet file at path.
func ReadColumnsFromFile(path string) (*field.Schema, []field.Column, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, field.IOError("open", path, err)
	}
	defer f.Close()
	return ReadColumns(f)
}

// ReadTable loads r into an arrow table. The caller releases the table.
func ReadTable(ctx context.Context, r parquet.ReaderAtSeeker, mem memory.Allocator) (arrow.Table, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	tbl, err := pqarrow.ReadTable(ctx, r, parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", field.ErrCorruptContainer, err)
	}
	return tbl, nil
}

// Dump writes the footer summary of r to w: the schema and the row count
// of each row group.
func Dump(w io.Writer, r parquet.ReaderAtSeeker) error {
	rdr, err := openReader(r, nil)
	if err != nil {
		return err
	}
	md := rdr.MetaData()
	fmt.Fprintf(w, "version: %s\n", md.Version())
	fmt.Fprintf(w, "created by: %s\n", md.GetCreatedBy())
	fmt.Fprintf(w, "rows: %d\n", rdr.NumRows())
	fmt.Fprintf(w, "row groups: %d\n", rdr.NumRowGroups())
	for i := 0; i < rdr.NumRowGroups(); i++ {
		rg := md.RowGroup(i)
		fmt.Fprintf(w, "  row group %d: %d rows, %d bytes\n", i, rg.NumRows(), rg.TotalByteSize())
	}
	for i := 0; i < md.Schema.NumColumns(); i++ {
		col := md.Schema.Column(i)
		fmt.Fprintf(w, "  column %d: %s %s\n", i, col.Name(), col.PhysicalType())
	}
	return nil
}
