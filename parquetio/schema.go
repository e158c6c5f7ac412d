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
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/schema"
	"github.com/zhaoyanggh/taosx-data-format-bench/field"
)

// RootName is the name of the group wrapping the leaf columns.
const RootName = "schema"

// Leaves are optional with a max definition level of 1 and every value is
// written at presentLevel.
var leafRepetition = parquet.Repetitions.Optional

const presentLevel = int16(1)

// physicalTypes is the physical half of the projection table.
var physicalTypes = map[field.Kind]parquet.Type{
	field.BOOL:      parquet.Types.Boolean,
	field.TINYINT:   parquet.Types.Int32,
	field.UTINYINT:  parquet.Types.Int32,
	field.SMALLINT:  parquet.Types.Int32,
	field.USMALLINT: parquet.Types.Int32,
	field.INT:       parquet.Types.Int32,
	field.UINT:      parquet.Types.Int32, // reinterpreted, not widened
	field.BIGINT:    parquet.Types.Int64,
	field.UBIGINT:   parquet.Types.Int64,
	field.FLOAT:     parquet.Types.Float,
	field.DOUBLE:    parquet.Types.Double,
	field.TIMESTAMP: parquet.Types.Int64,
	field.BINARY:    parquet.Types.ByteArray,
	field.NCHAR:     parquet.Types.ByteArray,
}

// convertedTypes holds the width sub-tags of the integer kinds.
var convertedTypes = map[field.Kind]schema.ConvertedType{
	field.TINYINT:   schema.ConvertedTypes.Int8,
	field.UTINYINT:  schema.ConvertedTypes.Uint8,
	field.SMALLINT:  schema.ConvertedTypes.Int16,
	field.USMALLINT: schema.ConvertedTypes.Uint16,
	field.UINT:      schema.ConvertedTypes.Uint32,
	field.UBIGINT:   schema.ConvertedTypes.Uint64,
}

var timeUnits = map[field.Precision]schema.TimeUnitType{
	field.Milli: schema.TimeUnitMillis,
	field.Micro: schema.TimeUnitMicros,
	field.Nano:  schema.TimeUnitNanos,
}

// PhysicalType returns the parquet physical type used for kind k.
func PhysicalType(k field.Kind) (parquet.Type, error) {
	if t, ok := physicalTypes[k]; ok {
		return t, nil
	}
	return parquet.Types.Undefined, fmt.Errorf("%w: no parquet type for %s", field.ErrUnsupportedType, k)
}

// Node returns the leaf node for entry e.
func Node(e field.Entry) (schema.Node, error) {
	typ, err := PhysicalType(e.Kind)
	if err != nil {
		return nil, err
	}
	switch e.Kind {
	case field.TIMESTAMP:
		unit, ok := timeUnits[e.Precision]
		if !ok {
			return nil, fmt.Errorf("%w: timestamp precision %s", field.ErrUnsupportedType, e.Precision)
		}
		return schema.NewPrimitiveNodeLogical(e.Name, leafRepetition,
			schema.NewTimestampLogicalType(false /* adjustedToUTC */, unit), typ, -1 /* typeLen */, -1 /* fieldID */)
	case field.NCHAR:
		return schema.NewPrimitiveNodeLogical(e.Name, leafRepetition, schema.StringLogicalType{}, typ, -1 /* typeLen */, -1 /* fieldID */)
	}
	if ct, ok := convertedTypes[e.Kind]; ok {
		return schema.NewPrimitiveNodeConverted(e.Name, leafRepetition, typ, ct, -1 /* typeLen */, 0, 0, -1 /* fieldID */)
	}
	return schema.NewPrimitiveNode(e.Name, leafRepetition, typ, -1 /* fieldID */, -1 /* typeLen */)
}

// Schema is a field.Schema compiled into a parquet schema: a required root
// group named RootName with one leaf per entry, in schema order.
type Schema struct {
	fields *field.Schema
	root   *schema.GroupNode
	pq     *schema.Schema
}

// BuildSchema compiles sc into a parquet schema.
func BuildSchema(sc *field.Schema) (*Schema, error) {
	leaves := make(schema.FieldList, sc.Len())
	for i := 0; i < sc.Len(); i++ {
		e := sc.Entry(i)
		n, err := Node(e)
		if err != nil {
			return nil, field.NewError(-1, i, e.Name, e.Kind, err)
		}
		leaves[i] = n
	}
	root, err := schema.NewGroupNode(RootName, parquet.Repetitions.Required, leaves, -1 /* fieldID */)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", field.ErrSchemaMismatch, err)
	}
	return &Schema{fields: sc, root: root, pq: schema.NewSchema(root)}, nil
}

// Fields returns the logical schema this was built from.
func (s *Schema) Fields() *field.Schema { return s.fields }

// Root returns the root group node handed to the file writer.
func (s *Schema) Root() *schema.GroupNode { return s.root }

// Parquet returns the flattened parquet schema.
func (s *Schema) Parquet() *schema.Schema { return s.pq }

func (s *Schema) String() string {
	var b strings.Builder
	schema.PrintSchema(s.root, &b, 2)
	return b.String()
}

// KindOf recovers the logical kind of a leaf column from its physical type
// and annotations. Timestamps also report their precision.
func KindOf(col *schema.Column) (field.Kind, field.Precision, error) {
	switch col.PhysicalType() {
	case parquet.Types.Boolean:
		return field.BOOL, field.Milli, nil
	case parquet.Types.Float:
		return field.FLOAT, field.Milli, nil
	case parquet.Types.Double:
		return field.DOUBLE, field.Milli, nil
	case parquet.Types.Int32:
		switch col.ConvertedType() {
		case schema.ConvertedTypes.Int8:
			return field.TINYINT, field.Milli, nil
		case schema.ConvertedTypes.Uint8:
			return field.UTINYINT, field.Milli, nil
		case schema.ConvertedTypes.Int16:
			return field.SMALLINT, field.Milli, nil
		case schema.ConvertedTypes.Uint16:
			return field.USMALLINT, field.Milli, nil
		case schema.ConvertedTypes.Uint32:
			return field.UINT, field.Milli, nil
		}
		return field.INT, field.Milli, nil
	case parquet.Types.Int64:
		if ts, ok := col.LogicalType().(*schema.TimestampLogicalType); ok {
			for p, u := range timeUnits {
				if u == ts.TimeUnit() {
					return field.TIMESTAMP, p, nil
				}
			}
			return field.NULL, field.Milli, fmt.Errorf("%w: timestamp unit of column %s", field.ErrUnsupportedType, col.Name())
		}
		if col.ConvertedType() == schema.ConvertedTypes.Uint64 {
			return field.UBIGINT, field.Milli, nil
		}
		return field.BIGINT, field.Milli, nil
	case parquet.Types.ByteArray:
		if _, ok := col.LogicalType().(schema.StringLogicalType); ok {
			return field.NCHAR, field.Milli, nil
		}
		return field.BINARY, field.Milli, nil
	}
	return field.NULL, field.Milli, fmt.Errorf("%w: %s column %s", field.ErrUnexpectedPhysicalType, col.PhysicalType(), col.Name())
}

// FieldsOf rebuilds the logical schema of a parquet file schema.
func FieldsOf(pq *schema.Schema) (*field.Schema, error) {
	entries := make([]field.Entry, pq.NumColumns())
	for i := range entries {
		col := pq.Column(i)
		k, p, err := KindOf(col)
		if err != nil {
			return nil, err
		}
		entries[i] = field.Entry{Name: col.Name(), Kind: k, Precision: p}
	}
	return field.NewSchemaFromEntries(entries)
}

var codecNames = map[string]compress.Compression{
	"uncompressed": compress.Codecs.Uncompressed,
	"none":         compress.Codecs.Uncompressed,
	"snappy":       compress.Codecs.Snappy,
	"gzip":         compress.Codecs.Gzip,
	"brotli":       compress.Codecs.Brotli,
	"zstd":         compress.Codecs.Zstd,
	"lz4":          compress.Codecs.Lz4,
}

// Codecs lists the supported column chunk codecs.
var Codecs = []compress.Compression{
	compress.Codecs.Uncompressed,
	compress.Codecs.Snappy,
	compress.Codecs.Gzip,
	compress.Codecs.Brotli,
	compress.Codecs.Zstd,
	compress.Codecs.Lz4,
}

// ParseCodec returns the codec named s, case-insensitively.
func ParseCodec(s string) (compress.Compression, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return compress.Codecs.Uncompressed, nil
	}
	if c, ok := codecNames[name]; ok {
		return c, nil
	}
	return compress.Codecs.Uncompressed, fmt.Errorf("%w: unknown parquet codec %q", field.ErrUnsupportedType, s)
}

func supportedCodec(c compress.Compression) bool {
	for _, s := range Codecs {
		if s == c {
			return true
		}
	}
	return false
}
