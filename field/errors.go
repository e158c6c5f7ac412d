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
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedType is returned for a kind outside the closed set, or a
	// kind that a format's projection table has no entry for.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrNullNotSupported is returned when a Null value is presented to an
	// encoder. Neither format encodes nulls for the current schemas.
	ErrNullNotSupported = errors.New("null not supported")
	// ErrIO wraps file create, open, read and write failures.
	ErrIO = errors.New("io error")
	// ErrCorruptContainer is returned when an artifact's header or footer
	// cannot be decoded.
	ErrCorruptContainer = errors.New("corrupt container")
	// ErrSchemaMismatch is returned when data or an embedded schema does not
	// line up with the schema it is read or written against.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrUnexpectedPhysicalType is returned when a column writer or reader
	// has a physical type the column encoder does not dispatch on.
	ErrUnexpectedPhysicalType = errors.New("unexpected physical type")
)

// Error locates a fault at a row and/or column of a dataset. A negative Row
// or Column means the position does not apply.
type Error struct {
	Row    int
	Column int
	Name   string
	Kind   Kind
	Err    error
}

// NewError returns an *Error for the given position wrapping err.
func NewError(row, col int, name string, kind Kind, err error) *Error {
	return &Error{Row: row, Column: col, Name: name, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Row >= 0 {
		fmt.Fprintf(&b, " at row %d", e.Row)
	}
	if e.Column >= 0 {
		fmt.Fprintf(&b, " column %d", e.Column)
		if e.Name != "" {
			fmt.Fprintf(&b, " (%s)", e.Name)
		}
	}
	fmt.Fprintf(&b, ": type %s", e.Kind)
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// IOError wraps a filesystem failure so that it matches both ErrIO and the
// underlying error, for instance fs.ErrNotExist.
func IOError(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, path, err)
}
