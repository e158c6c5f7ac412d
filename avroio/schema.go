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
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hamba/avro/v2"
	"github.com/hamba/avro/v2/ocf"
	"github.com/zhaoyanggh/taosx-data-format-bench/field"
)

// RecordName is the name of the top level record of every container.
const RecordName = "m1"

// ErrWriterClosed is returned by writes after Close.
var ErrWriterClosed = errors.New("avroio: writer is closed")

// physicalTypes projects each column kind onto the Avro primitive it is
// stored as. Narrow unsigned kinds widen into "int", UINT into "long".
var physicalTypes = map[field.Kind]avro.Type{
	field.BOOL:      avro.Boolean,
	field.TINYINT:   avro.Int,
	field.UTINYINT:  avro.Int,
	field.SMALLINT:  avro.Int,
	field.USMALLINT: avro.Int,
	field.INT:       avro.Int,
	field.UINT:      avro.Long,
	field.BIGINT:    avro.Long,
	field.UBIGINT:   avro.Long,
	field.FLOAT:     avro.Float,
	field.DOUBLE:    avro.Double,
	field.TIMESTAMP: avro.Long, // raw count, precision lives in the schema
	field.BINARY:    avro.Bytes,
	field.NCHAR:     avro.String,
}

// PhysicalType returns the Avro primitive type used for kind k.
func PhysicalType(k field.Kind) (avro.Type, error) {
	if t, ok := physicalTypes[k]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: no avro type for %s", field.ErrUnsupportedType, k)
}

// Schema is a field.Schema compiled into an Avro record schema. It is built
// once and can be shared by any number of writers and readers.
type Schema struct {
	fields *field.Schema
	avro   *avro.RecordSchema
	doc    string
}

type recordDoc struct {
	Type   string     `json:"type"`
	Name   string     `json:"name"`
	Fields []fieldDoc `json:"fields"`
}

type fieldDoc struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// BuildSchema compiles sc into an Avro record named RecordName with one
// field per entry, in schema order.
func BuildSchema(sc *field.Schema) (*Schema, error) {
	rec := recordDoc{Type: "record", Name: RecordName, Fields: make([]fieldDoc, sc.Len())}
	for i := 0; i < sc.Len(); i++ {
		e := sc.Entry(i)
		typ, err := PhysicalType(e.Kind)
		if err != nil {
			return nil, field.NewError(-1, i, e.Name, e.Kind, err)
		}
		rec.Fields[i] = fieldDoc{Name: e.Name, Type: string(typ)}
	}

	doc, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	parsed, err := avro.Parse(string(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid avro schema: %w", field.ErrSchemaMismatch, err)
	}
	rs, ok := parsed.(*avro.RecordSchema)
	if !ok {
		return nil, fmt.Errorf("%w: expected avro record schema, got %s", field.ErrSchemaMismatch, parsed.Type())
	}
	return &Schema{fields: sc, avro: rs, doc: string(doc)}, nil
}

// Fields returns the logical schema this was built from.
func (s *Schema) Fields() *field.Schema { return s.fields }

// Avro returns the compiled record schema.
func (s *Schema) Avro() *avro.RecordSchema { return s.avro }

// String returns the JSON document of the schema.
func (s *Schema) String() string { return s.doc }

// checkEmbedded verifies that an Avro schema read from a container is the
// projection of fields.
func checkEmbedded(embedded avro.Schema, fields *field.Schema) error {
	rs, ok := embedded.(*avro.RecordSchema)
	if !ok {
		return fmt.Errorf("%w: container schema is %s, not a record", field.ErrSchemaMismatch, embedded.Type())
	}
	if len(rs.Fields()) != fields.Len() {
		return fmt.Errorf("%w: container has %d fields, schema has %d entries", field.ErrSchemaMismatch, len(rs.Fields()), fields.Len())
	}
	for i, f := range rs.Fields() {
		e := fields.Entry(i)
		want, err := PhysicalType(e.Kind)
		if err != nil {
			return field.NewError(-1, i, e.Name, e.Kind, err)
		}
		if f.Name() != e.Name || f.Type().Type() != want {
			return field.NewError(-1, i, e.Name, e.Kind,
				fmt.Errorf("%w: container field %s has type %s, want %s", field.ErrSchemaMismatch, f.Name(), f.Type().Type(), want))
		}
	}
	return nil
}

var codecs = []ocf.CodecName{ocf.Null, ocf.Deflate, ocf.Snappy, ocf.ZStandard}

// ParseCodec returns the OCF block codec named s.
func ParseCodec(s string) (ocf.CodecName, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "", "none", "uncompressed":
		return ocf.Null, nil
	case "zstd":
		return ocf.ZStandard, nil
	}
	for _, c := range codecs {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown avro codec %q", field.ErrUnsupportedType, s)
}

// Codecs returns every supported OCF codec.
func Codecs() []ocf.CodecName {
	out := make([]ocf.CodecName, len(codecs))
	copy(out, codecs)
	return out
}
