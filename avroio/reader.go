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
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hamba/avro/v2"
	"github.com/hamba/avro/v2/ocf"
	"github.com/zhaoyanggh/taosx-data-format-bench/field"
)

// Header metadata keys of an object container.
const (
	schemaKey = "avro.schema"
	codecKey  = "avro.codec"
)

// Reader iterates the records of an object container.
type Reader struct {
	dec    *ocf.Decoder
	schema *avro.RecordSchema
	cur    map[string]interface{}
	nread  int64
	err    error
	done   bool
}

// NewReader reads the container header from r. A missing or malformed
// header is reported as field.ErrCorruptContainer.
func NewReader(r io.Reader) (*Reader, error) {
	dec, err := ocf.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: avro header: %w", field.ErrCorruptContainer, err)
	}
	embedded, err := avro.Parse(string(dec.Metadata()[schemaKey]))
	if err != nil {
		return nil, fmt.Errorf("%w: avro header schema: %w", field.ErrCorruptContainer, err)
	}
	rs, ok := embedded.(*avro.RecordSchema)
	if !ok {
		return nil, fmt.Errorf("%w: container schema is %s, not a record", field.ErrSchemaMismatch, embedded.Type())
	}
	return &Reader{dec: dec, schema: rs}, nil
}

// Schema returns the record schema embedded in the container.
func (r *Reader) Schema() *avro.RecordSchema { return r.schema }

// Codec returns the name of the block codec recorded in the header.
func (r *Reader) Codec() ocf.CodecName {
	if c, ok := r.dec.Metadata()[codecKey]; ok && len(c) > 0 {
		return ocf.CodecName(c)
	}
	return ocf.Null
}

// Next decodes the next record. It returns false at the end of the
// container or on error; check Err afterwards.
func (r *Reader) Next() bool {
	if r.done || r.err != nil {
		return false
	}
	if !r.dec.HasNext() {
		r.done = true
		if err := r.dec.Error(); err != nil && !errors.Is(err, io.EOF) {
			r.err = fmt.Errorf("%w: avro block after record %d: %w", field.ErrCorruptContainer, r.nread, err)
		}
		return false
	}
	rec := make(map[string]interface{}, len(r.schema.Fields()))
	if err := r.dec.Decode(&rec); err != nil {
		r.err = fmt.Errorf("%w: avro record %d: %w", field.ErrCorruptContainer, r.nread, err)
		return false
	}
	for _, f := range r.schema.Fields() {
		if _, ok := rec[f.Name()]; !ok {
			r.err = fmt.Errorf("%w: avro record %d has no field %s", field.ErrCorruptContainer, r.nread, f.Name())
			return false
		}
	}
	r.cur = rec
	r.nread++
	return true
}

// Record returns the record decoded by the last call to Next, keyed by
// field name.
func (r *Reader) Record() map[string]interface{} { return r.cur }

// NumRead returns the number of records decoded so far.
func (r *Reader) NumRead() int64 { return r.nread }

// Err returns the first error met while iterating.
func (r *Reader) Err() error { return r.err }

// ReadRowCount counts the records of the container read from r.
func ReadRowCount(r io.Reader) (int64, error) {
	rdr, err := NewReader(r)
	if err != nil {
		return 0, err
	}
	for rdr.Next() {
	}
	return rdr.NumRead(), rdr.Err()
}

// ReadRowCountFromBuffer counts the records of an in-memory container.
func ReadRowCountFromBuffer(b []byte) (int64, error) {
	return ReadRowCount(bytes.NewReader(b))
}

// ReadRowCountFromFile counts the records of the container stored at path.
func ReadRowCountFromFile(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, field.IOError("open", path, err)
	}
	defer f.Close()
	return ReadRowCount(bufio.NewReader(f))
}

// ReadRows decodes every record of the container back into rows of sc. The
// container's schema must be the projection of sc.
func ReadRows(r io.Reader, sc *field.Schema) ([]field.Row, error) {
	rdr, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	if err := checkEmbedded(rdr.Schema(), sc); err != nil {
		return nil, err
	}
	var rows []field.Row
	for rdr.Next() {
		rec := rdr.Record()
		row := make(field.Row, sc.Len())
		for j := range row {
			e := sc.Entry(j)
			v, err := unproject(e, rec[e.Name])
			if err != nil {
				return nil, field.NewError(len(rows), j, e.Name, e.Kind, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return rows, rdr.Err()
}

// unproject narrows a decoded Avro value back into a Field of the entry's
// kind, reversing project.
func unproject(e field.Entry, v interface{}) (field.Field, error) {
	switch e.Kind {
	case field.BOOL:
		b, ok := v.(bool)
		if !ok {
			return field.Null(), mismatch(e, v)
		}
		return field.Bool(b), nil
	case field.FLOAT:
		f, ok := v.(float32)
		if !ok {
			return field.Null(), mismatch(e, v)
		}
		return field.Float(f), nil
	case field.DOUBLE:
		f, ok := v.(float64)
		if !ok {
			return field.Null(), mismatch(e, v)
		}
		return field.Double(f), nil
	case field.BINARY:
		b, ok := v.([]byte)
		if !ok {
			return field.Null(), mismatch(e, v)
		}
		return field.Binary(b), nil
	case field.NCHAR:
		s, ok := v.(string)
		if !ok {
			return field.Null(), mismatch(e, v)
		}
		return field.NChar(s), nil
	}

	n, ok := asInt64(v)
	if !ok {
		return field.Null(), mismatch(e, v)
	}
	switch e.Kind {
	case field.TINYINT:
		return field.TinyInt(int8(n)), nil
	case field.UTINYINT:
		return field.UTinyInt(uint8(n)), nil
	case field.SMALLINT:
		return field.SmallInt(int16(n)), nil
	case field.USMALLINT:
		return field.USmallInt(uint16(n)), nil
	case field.INT:
		return field.Int(int32(n)), nil
	case field.UINT:
		return field.UInt(uint32(n)), nil
	case field.BIGINT:
		return field.BigInt(n), nil
	case field.UBIGINT:
		return field.UBigInt(uint64(n)), nil
	case field.TIMESTAMP:
		return field.Timestamp(n, e.Precision), nil
	}
	return field.Null(), field.ErrUnsupportedType
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func mismatch(e field.Entry, v interface{}) error {
	return fmt.Errorf("%w: decoded %T for %s", field.ErrSchemaMismatch, v, e.Kind)
}
