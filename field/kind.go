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
	"fmt"
	"strconv"
	"strings"
)

// Kind is a logical field type. It describes a value independently of the
// storage format that eventually holds it.
type Kind int8

const (
	// NULL is the tag of a missing value. It is never a column kind.
	NULL Kind = iota

	// BOOL is a boolean
	BOOL

	// TINYINT is a signed 8-bit integer
	TINYINT

	// UTINYINT is an unsigned 8-bit integer
	UTINYINT

	// SMALLINT is a signed 16-bit integer
	SMALLINT

	// USMALLINT is an unsigned 16-bit integer
	USMALLINT

	// INT is a signed 32-bit integer
	INT

	// UINT is an unsigned 32-bit integer
	UINT

	// BIGINT is a signed 64-bit integer
	BIGINT

	// UBIGINT is an unsigned 64-bit integer
	UBIGINT

	// FLOAT is a 4-byte IEEE floating point value
	FLOAT

	// DOUBLE is an 8-byte IEEE floating point value
	DOUBLE

	// TIMESTAMP is a signed 64-bit count of epoch units at a fixed Precision
	TIMESTAMP

	// BINARY is a variable-length byte sequence
	BINARY

	// NCHAR is a variable-length UTF-8 string
	NCHAR

	// numKinds is the count of valid kinds; keep it last.
	numKinds
)

var kindNames = [numKinds]string{
	NULL:      "null",
	BOOL:      "bool",
	TINYINT:   "tinyint",
	UTINYINT:  "utinyint",
	SMALLINT:  "smallint",
	USMALLINT: "usmallint",
	INT:       "int",
	UINT:      "uint",
	BIGINT:    "bigint",
	UBIGINT:   "ubigint",
	FLOAT:     "float",
	DOUBLE:    "double",
	TIMESTAMP: "timestamp",
	BINARY:    "binary",
	NCHAR:     "nchar",
}

// AllKinds lists every column kind in the order the benchmark schema uses.
var AllKinds = []Kind{
	TIMESTAMP, TINYINT, UTINYINT, SMALLINT, USMALLINT, INT, UINT,
	BIGINT, UBIGINT, FLOAT, DOUBLE, BOOL, BINARY, NCHAR,
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k is one of the fifteen known tags (NULL included).
func (k Kind) Valid() bool { return k >= NULL && k < numKinds }

// IsColumnKind reports whether k may appear in a Schema.
func (k Kind) IsColumnKind() bool { return k > NULL && k < numKinds }

// ParseKind returns the Kind named by s, ignoring case and surrounding blanks.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return NULL, fmt.Errorf("%w: unknown type name %q", ErrUnsupportedType, s)
}

// Precision is the unit of a TIMESTAMP value.
type Precision int8

const (
	Milli Precision = iota
	Micro
	Nano
)

func (p Precision) String() string {
	switch p {
	case Milli:
		return "ms"
	case Micro:
		return "us"
	case Nano:
		return "ns"
	}
	return "Precision(" + strconv.Itoa(int(p)) + ")"
}

// Valid reports whether p is a known precision.
func (p Precision) Valid() bool { return p >= Milli && p <= Nano }

// ParsePrecision returns the Precision named by s ("ms", "us" or "ns").
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ms", "milli":
		return Milli, nil
	case "us", "micro":
		return Micro, nil
	case "ns", "nano":
		return Nano, nil
	}
	return Milli, fmt.Errorf("%w: unknown timestamp precision %q", ErrUnsupportedType, s)
}
