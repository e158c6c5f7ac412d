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
	"bytes"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/hamba/avro/v2/ocf"
	"github.com/zhaoyanggh/taosx-data-format-bench/field"
	"golang.org/x/xerrors"
)

type writerConfig struct {
	codec       ocf.CodecName
	level       int
	blockLength int
	logger      log.Logger
}

// Option configures a Writer.
type Option func(*writerConfig)

// WithCodec sets the block codec, ocf.Null by default.
func WithCodec(c ocf.CodecName) Option {
	return func(cfg *writerConfig) { cfg.codec = c }
}

// WithCompressionLevel sets the level of the deflate or zstandard codec.
func WithCompressionLevel(lvl int) Option {
	return func(cfg *writerConfig) { cfg.level = lvl }
}

// WithBlockLength sets the number of records buffered per container block.
func WithBlockLength(n int) Option {
	return func(cfg *writerConfig) { cfg.blockLength = n }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l log.Logger) Option {
	return func(cfg *writerConfig) { cfg.logger = l }
}

// Writer appends rows as Avro records to an object container.
//
// The header is written when the Writer is created, records are appended
// one per row and Close flushes the last block. A Writer must not be used
// after Close.
type Writer struct {
	schema *Schema
	enc    *ocf.Encoder
	rec    map[string]interface{}
	names  []string
	codec  ocf.CodecName
	logger log.Logger

	nrows  int64
	closed bool
}

// NewWriter writes the container header for sc to w and returns a Writer
// ready to accept rows.
func NewWriter(w io.Writer, sc *Schema, opts ...Option) (*Writer, error) {
	cfg := writerConfig{codec: ocf.Null, level: -1}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.NewNopLogger()
	}
	if _, err := ParseCodec(string(cfg.codec)); err != nil {
		return nil, err
	}

	encOpts := []ocf.EncoderFunc{ocf.WithCodec(cfg.codec)}
	if cfg.level >= 0 {
		encOpts = append(encOpts, ocf.WithCompressionLevel(cfg.level))
	}
	if cfg.blockLength > 0 {
		encOpts = append(encOpts, ocf.WithBlockLength(cfg.blockLength))
	}
	enc, err := ocf.NewEncoder(sc.String(), w, encOpts...)
	if err != nil {
		return nil, xerrors.Errorf("avroio: could not create container encoder: %w", err)
	}

	names := make([]string, sc.fields.Len())
	for i := range names {
		names[i] = sc.fields.Entry(i).Name
	}
	return &Writer{
		schema: sc,
		enc:    enc,
		rec:    make(map[string]interface{}, len(names)),
		names:  names,
		codec:  cfg.codec,
		logger: cfg.logger,
	}, nil
}

// Schema returns the schema the writer is bound to.
func (w *Writer) Schema() *Schema { return w.schema }

// NumRows returns the number of rows appended so far.
func (w *Writer) NumRows() int64 { return w.nrows }

// Append encodes row as one record. The row is checked against the schema
// first, so a failing Append leaves no partial record behind.
func (w *Writer) Append(row field.Row) error {
	if w.closed {
		return ErrWriterClosed
	}
	if err := w.schema.fields.CheckRow(int(w.nrows), row); err != nil {
		return err
	}
	for j, v := range row {
		val, err := project(v)
		if err != nil {
			e := w.schema.fields.Entry(j)
			return field.NewError(int(w.nrows), j, e.Name, e.Kind, err)
		}
		w.rec[w.names[j]] = val
	}
	if err := w.enc.Encode(w.rec); err != nil {
		return xerrors.Errorf("avroio: encode row %d: %w", w.nrows, err)
	}
	w.nrows++
	return nil
}

// Close flushes the pending block. Subsequent calls have no effect.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.enc.Close(); err != nil {
		return xerrors.Errorf("avroio: flush container: %w", err)
	}
	level.Debug(w.logger).Log("msg", "avro container flushed", "rows", w.nrows, "codec", w.codec)
	return nil
}

// project widens v into the Go value the Avro encoder expects for its
// physical type.
func project(v field.Field) (interface{}, error) {
	switch v.Kind() {
	case field.NULL:
		return nil, field.ErrNullNotSupported
	case field.BOOL:
		return v.Bool(), nil
	case field.TINYINT:
		return int32(v.TinyInt()), nil
	case field.UTINYINT:
		return int32(v.UTinyInt()), nil
	case field.SMALLINT:
		return int32(v.SmallInt()), nil
	case field.USMALLINT:
		return int32(v.USmallInt()), nil
	case field.INT:
		return v.Int(), nil
	case field.UINT:
		return int64(v.UInt()), nil
	case field.BIGINT:
		return v.BigInt(), nil
	case field.UBIGINT:
		// reinterpreted, values above math.MaxInt64 become negative
		return int64(v.UBigInt()), nil
	case field.FLOAT:
		return v.Float(), nil
	case field.DOUBLE:
		return v.Double(), nil
	case field.TIMESTAMP:
		ts, _ := v.Timestamp()
		return ts, nil
	case field.BINARY:
		if b := v.Binary(); b != nil {
			return b, nil
		}
		return []byte{}, nil
	case field.NCHAR:
		return v.NChar(), nil
	}
	return nil, field.ErrUnsupportedType
}

// EncodeToBuffer encodes rows into an in-memory object container.
func EncodeToBuffer(sc *Schema, rows []field.Row, codec ocf.CodecName, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, sc, append([]Option{WithCodec(codec)}, opts...)...)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Append(r); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes rows and stores the container at path, replacing any
// existing file. Nothing is written if encoding fails.
func WriteFile(path string, sc *Schema, rows []field.Row, codec ocf.CodecName, opts ...Option) error {
	data, err := EncodeToBuffer(sc, rows, codec, opts...)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return field.IOError("write", path, err)
	}
	return nil
}
