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

package field

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/zhaoyanggh/taosx-data-format-bench/internal/debug"
)

// Field is a single tagged value. Its Kind is fixed at construction; the
// typed accessors return the value at its own width and never widen.
//
// Binary values are not copied: the caller keeps ownership of the slice and
// must not modify it while the Field is in use.
type Field struct {
	kind Kind
	prec Precision
	bits uint64
	str  string
	bin  []byte
}

// Null returns the NULL value.
func Null() Field { return Field{kind: NULL} }

// Bool returns a BOOL value.
func Bool(v bool) Field {
	f := Field{kind: BOOL}
	if v {
		f.bits = 1
	}
	return f
}

// TinyInt returns a TINYINT value.
func TinyInt(v int8) Field { return Field{kind: TINYINT, bits: uint64(v)} }

// UTinyInt returns a UTINYINT value.
func UTinyInt(v uint8) Field { return Field{kind: UTINYINT, bits: uint64(v)} }

// SmallInt returns a SMALLINT value.
func SmallInt(v int16) Field { return Field{kind: SMALLINT, bits: uint64(v)} }

// USmallInt returns a USMALLINT value.
func USmallInt(v uint16) Field { return Field{kind: USMALLINT, bits: uint64(v)} }

// Int returns an INT value.
func Int(v int32) Field { return Field{kind: INT, bits: uint64(v)} }

// UInt returns a UINT value.
func UInt(v uint32) Field { return Field{kind: UINT, bits: uint64(v)} }

// BigInt returns a BIGINT value.
func BigInt(v int64) Field { return Field{kind: BIGINT, bits: uint64(v)} }

// UBigInt returns a UBIGINT value.
func UBigInt(v uint64) Field { return Field{kind: UBIGINT, bits: v} }

// Float returns a FLOAT value.
func Float(v float32) Field { return Field{kind: FLOAT, bits: uint64(math.Float32bits(v))} }

// Double returns a DOUBLE value.
func Double(v float64) Field { return Field{kind: DOUBLE, bits: math.Float64bits(v)} }

// Timestamp returns a TIMESTAMP holding v epoch units of precision p.
func Timestamp(v int64, p Precision) Field {
	return Field{kind: TIMESTAMP, prec: p, bits: uint64(v)}
}

// Binary returns a BINARY value referencing v.
func Binary(v []byte) Field { return Field{kind: BINARY, bin: v} }

// NChar returns an NCHAR value. No UTF-8 validation is performed.
func NChar(v string) Field { return Field{kind: NCHAR, str: v} }

// MakeField builds a Field from a Go native value. nil maps to Null
// and int64 maps to BIGINT; TIMESTAMP values need the Timestamp constructor.
func MakeField(val interface{}) (Field, error) {
	switch v := val.(type) {
	case nil:
		return Null(), nil
	case Field:
		return v, nil
	case bool:
		return Bool(v), nil
	case int8:
		return TinyInt(v), nil
	case uint8:
		return UTinyInt(v), nil
	case int16:
		return SmallInt(v), nil
	case uint16:
		return USmallInt(v), nil
	case int32:
		return Int(v), nil
	case uint32:
		return UInt(v), nil
	case int64:
		return BigInt(v), nil
	case uint64:
		return UBigInt(v), nil
	case float32:
		return Float(v), nil
	case float64:
		return Double(v), nil
	case []byte:
		return Binary(v), nil
	case string:
		return NChar(v), nil
	}
	return Null(), fmt.Errorf("%w: cannot make a field from %T", ErrUnsupportedType, val)
}

// Kind returns the kind of f, NULL included.
func (f Field) Kind() Kind { return f.kind }

// IsNull reports whether f is the NULL value.
func (f Field) IsNull() bool { return f.kind == NULL }

func (f Field) assertKind(k Kind) {
	debug.Assert(f.kind == k, func() string {
		return "field: accessor for " + k.String() + " called on " + f.kind.String()
	})
}

// Bool returns the value of a BOOL field.
func (f Field) Bool() bool {
	f.assertKind(BOOL)
	return f.bits != 0
}

// TinyInt returns the value of a TINYINT field.
func (f Field) TinyInt() int8 {
	f.assertKind(TINYINT)
	return int8(f.bits)
}

// UTinyInt returns the value of a UTINYINT field.
func (f Field) UTinyInt() uint8 {
	f.assertKind(UTINYINT)
	return uint8(f.bits)
}

// SmallInt returns the value of a SMALLINT field.
func (f Field) SmallInt() int16 {
	f.assertKind(SMALLINT)
	return int16(f.bits)
}

// USmallInt returns the value of a USMALLINT field.
func (f Field) USmallInt() uint16 {
	f.assertKind(USMALLINT)
	return uint16(f.bits)
}

// Int returns the value of an INT field.
func (f Field) Int() int32 {
	f.assertKind(INT)
	return int32(f.bits)
}

// UInt returns the value of a UINT field.
func (f Field) UInt() uint32 {
	f.assertKind(UINT)
	return uint32(f.bits)
}

// BigInt returns the value of a BIGINT field.
func (f Field) BigInt() int64 {
	f.assertKind(BIGINT)
	return int64(f.bits)
}

// UBigInt returns the value of a UBIGINT field.
func (f Field) UBigInt() uint64 {
	f.assertKind(UBIGINT)
	return f.bits
}

// Float returns the value of a FLOAT field.
func (f Field) Float() float32 {
	f.assertKind(FLOAT)
	return math.Float32frombits(uint32(f.bits))
}

// Double returns the value of a DOUBLE field.
func (f Field) Double() float64 {
	f.assertKind(DOUBLE)
	return math.Float64frombits(f.bits)
}

// Timestamp returns the raw epoch value and its precision.
func (f Field) Timestamp() (int64, Precision) {
	f.assertKind(TIMESTAMP)
	return int64(f.bits), f.prec
}

// Binary returns the slice held by a BINARY field without copying it.
func (f Field) Binary() []byte {
	f.assertKind(BINARY)
	return f.bin
}

// NChar returns the string held by an NCHAR field.
func (f Field) NChar() string {
	f.assertKind(NCHAR)
	return f.str
}

// Equal reports whether f and o have the same kind and value. Floats compare
// by bit pattern so NaN values with equal payloads are equal.
func (f Field) Equal(o Field) bool {
	if f.kind != o.kind {
		return false
	}
	switch f.kind {
	case NULL:
		return true
	case BINARY:
		return bytes.Equal(f.bin, o.bin)
	case NCHAR:
		return f.str == o.str
	case TIMESTAMP:
		return f.bits == o.bits && f.prec == o.prec
	}
	return f.bits == o.bits
}

func (f Field) String() string {
	switch f.kind {
	case NULL:
		return "null"
	case BOOL:
		return strconv.FormatBool(f.Bool())
	case TINYINT, SMALLINT, INT, BIGINT:
		return strconv.FormatInt(signExtend(f.kind, f.bits), 10)
	case UTINYINT, USMALLINT, UINT, UBIGINT:
		return strconv.FormatUint(f.bits, 10)
	case FLOAT:
		return strconv.FormatFloat(float64(f.Float()), 'g', -1, 32)
	case DOUBLE:
		return strconv.FormatFloat(f.Double(), 'g', -1, 64)
	case TIMESTAMP:
		return strconv.FormatInt(int64(f.bits), 10) + f.prec.String()
	case BINARY:
		return fmt.Sprintf("%x", f.bin)
	case NCHAR:
		return strconv.Quote(f.str)
	}
	return f.kind.String()
}

func signExtend(k Kind, bits uint64) int64 {
	switch k {
	case TINYINT:
		return int64(int8(bits))
	case SMALLINT:
		return int64(int16(bits))
	case INT:
		return int64(int32(bits))
	}
	return int64(bits)
}

// Row is one value per schema entry, index aligned with the Schema.
type Row []Field

// Column holds the values of one schema entry across all rows.
type Column struct {
	Kind   Kind
	Values []Field
}

// Len returns the number of values in the column.
func (c Column) Len() int { return len(c.Values) }
