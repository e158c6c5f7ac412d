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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/zhaoyanggh/taosx-data-format-bench/field"
	"github.com/zhaoyanggh/taosx-data-format-bench/internal/debug"
	"golang.org/x/xerrors"
)

// ErrWriterClosed is returned by writes after Close.
var ErrWriterClosed = errors.New("parquetio: writer is closed")

type writerConfig struct {
	codec     compress.Compression
	mem       memory.Allocator
	logger    log.Logger
	createdBy string
	pageSize  int64
}

// Option configures a Writer.
type Option func(*writerConfig)

// WithCodec sets the codec applied to every column chunk.
func WithCodec(c compress.Compression) Option {
	return func(cfg *writerConfig) { cfg.codec = c }
}

// WithAllocator sets the allocator used for page buffers.
func WithAllocator(mem memory.Allocator) Option {
	return func(cfg *writerConfig) { cfg.mem = mem }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l log.Logger) Option {
	return func(cfg *writerConfig) { cfg.logger = l }
}

// WithCreatedBy overrides the created_by string of the footer.
func WithCreatedBy(s string) Option {
	return func(cfg *writerConfig) { cfg.createdBy = s }
}

// WithDataPageSize sets the target size of data pages in bytes.
func WithDataPageSize(n int64) Option {
	return func(cfg *writerConfig) { cfg.pageSize = n }
}

func (cfg *writerConfig) properties() *parquet.WriterProperties {
	opts := []parquet.WriterProperty{parquet.WithCompression(cfg.codec)}
	if cfg.mem != nil {
		opts = append(opts, parquet.WithAllocator(cfg.mem))
	}
	if cfg.createdBy != "" {
		opts = append(opts, parquet.WithCreatedBy(cfg.createdBy))
	}
	if cfg.pageSize > 0 {
		opts = append(opts, parquet.WithDataPageSize(cfg.pageSize))
	}
	return parquet.NewWriterProperties(opts...)
}

// Writer writes columns or rows into a parquet file.
//
// WriteColumns appends one row group holding every value of every column
// and WriteRow appends one row group holding a single row. The two may be
// mixed. The file is only readable once Close has written the footer.
type Writer struct {
	schema *Schema
	fw     *file.Writer
	codec  compress.Compression
	logger log.Logger

	nrows      int64
	nrowGroups int
	closed     bool
}

// NewWriter writes the file magic for sc to w and returns a Writer. The
// sink is closed by Close if it implements io.Closer.
func NewWriter(w io.Writer, sc *Schema, opts ...Option) (wr *Writer, err error) {
	cfg := writerConfig{codec: compress.Codecs.Uncompressed}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.NewNopLogger()
	}
	if !supportedCodec(cfg.codec) {
		return nil, fmt.Errorf("%w: parquet codec %s", field.ErrUnsupportedType, cfg.codec)
	}

	defer recoverInto(&err)
	fw := file.NewParquetWriter(w, sc.root, file.WithWriterProps(cfg.properties()))
	return &Writer{schema: sc, fw: fw, codec: cfg.codec, logger: cfg.logger}, nil
}

// Schema returns the schema the writer is bound to.
func (w *Writer) Schema() *Schema { return w.schema }

// NumRows returns the number of rows written so far.
func (w *Writer) NumRows() int64 { return w.nrows }

// NumRowGroups returns the number of row groups written so far.
func (w *Writer) NumRowGroups() int { return w.nrowGroups }

// WriteColumns writes cols as a single row group, one column chunk per
// schema entry. The columns are validated before anything is written and
// empty columns add no row group.
func (w *Writer) WriteColumns(cols []field.Column) (err error) {
	if w.closed {
		return ErrWriterClosed
	}
	nrows, err := w.schema.fields.CheckColumns(cols)
	if err != nil || nrows == 0 {
		return err
	}
	defer recoverInto(&err)

	rgw := w.fw.AppendRowGroup()
	for j, c := range cols {
		if err := w.writeChunk(rgw, j, c.Values); err != nil {
			return err
		}
	}
	if err := rgw.Close(); err != nil {
		return xerrors.Errorf("parquetio: close row group: %w", err)
	}
	w.nrows += int64(nrows)
	w.nrowGroups++
	debug.Log("msg", "row group written", "row_group", w.nrowGroups-1, "rows", nrows)
	return nil
}

// WriteRow writes row as its own row group.
func (w *Writer) WriteRow(row field.Row) (err error) {
	if w.closed {
		return ErrWriterClosed
	}
	if err := w.schema.fields.CheckRow(int(w.nrows), row); err != nil {
		return err
	}
	defer recoverInto(&err)

	rgw := w.fw.AppendRowGroup()
	for j := range row {
		if err := w.writeChunk(rgw, j, row[j:j+1]); err != nil {
			return err
		}
	}
	if err := rgw.Close(); err != nil {
		return xerrors.Errorf("parquetio: close row group: %w", err)
	}
	w.nrows++
	w.nrowGroups++
	return nil
}

func (w *Writer) writeChunk(rgw file.SerialRowGroupWriter, j int, values []field.Field) error {
	cw, err := rgw.NextColumn()
	if err != nil {
		return xerrors.Errorf("parquetio: open column %d: %w", j, err)
	}
	if err := writeValues(cw, values); err != nil {
		e := w.schema.fields.Entry(j)
		return field.NewError(-1, j, e.Name, e.Kind, err)
	}
	if err := cw.Close(); err != nil {
		return xerrors.Errorf("parquetio: close column %d: %w", j, err)
	}
	return nil
}

// Close closes the open row group and writes the footer. Subsequent calls
// have no effect.
func (w *Writer) Close() (err error) {
	if w.closed {
		return nil
	}
	w.closed = true
	defer recoverInto(&err)
	if err := w.fw.Close(); err != nil {
		return xerrors.Errorf("parquetio: write footer: %w", err)
	}
	level.Debug(w.logger).Log("msg", "parquet file finalized", "rows", w.nrows, "row_groups", w.nrowGroups, "codec", w.codec)
	return nil
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		switch e := r.(type) {
		case error:
			*err = xerrors.Errorf("parquetio: %w", e)
		default:
			*err = xerrors.Errorf("parquetio: %v", e)
		}
	}
}

// EncodeColumnsToBuffer writes cols as one row group into an in-memory file.
func EncodeColumnsToBuffer(sc *Schema, cols []field.Column, codec compress.Compression, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, sc, codec, opts, func(w *Writer) error { return w.WriteColumns(cols) }); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeRowsToBuffer writes one row group per row into an in-memory file.
func EncodeRowsToBuffer(sc *Schema, rows []field.Row, codec compress.Compression, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, sc, codec, opts, writeRows(rows)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteColumnsToFile writes cols as one row group into the file at path,
// replacing it. The columns are validated before the file is created.
func WriteColumnsToFile(path string, sc *Schema, cols []field.Column, codec compress.Compression, opts ...Option) error {
	if _, err := sc.fields.CheckColumns(cols); err != nil {
		return err
	}
	return writeFile(path, sc, codec, opts, func(w *Writer) error { return w.WriteColumns(cols) })
}

// WriteRowsToFile writes one row group per row into the file at path,
// replacing it. The rows are validated before the file is created.
func WriteRowsToFile(path string, sc *Schema, rows []field.Row, codec compress.Compression, opts ...Option) error {
	for i, r := range rows {
		if err := sc.fields.CheckRow(i, r); err != nil {
			return err
		}
	}
	return writeFile(path, sc, codec, opts, writeRows(rows))
}

func writeRows(rows []field.Row) func(*Writer) error {
	return func(w *Writer) error {
		for _, r := range rows {
			if err := w.WriteRow(r); err != nil {
				return err
			}
		}
		return nil
	}
}

func encode(sink io.Writer, sc *Schema, codec compress.Compression, opts []Option, fn func(*Writer) error) error {
	w, err := NewWriter(sink, sc, append([]Option{WithCodec(codec)}, opts...)...)
	if err != nil {
		return err
	}
	if err := fn(w); err != nil {
		w.closed = true
		return err
	}
	return w.Close()
}

// nopCloser keeps the parquet writer from closing a file it does not own.
type nopCloser struct{ io.Writer }

func writeFile(path string, sc *Schema, codec compress.Compression, opts []Option, fn func(*Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return field.IOError("create", path, err)
	}
	if err := encode(nopCloser{f}, sc, codec, opts, fn); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return field.IOError("close", path, err)
	}
	return nil
}
