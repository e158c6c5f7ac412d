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

// Entry is a single named, typed position of a Schema.
type Entry struct {
	Name string
	Kind Kind
	// Precision is the unit of TIMESTAMP entries and is ignored otherwise.
	Precision Precision
}

func (e Entry) String() string {
	if e.Kind == TIMESTAMP {
		return e.Name + ": " + e.Kind.String() + "(" + e.Precision.String() + ")"
	}
	return e.Name + ": " + e.Kind.String()
}

// Schema is an ordered, immutable list of entries. Position i of every Row
// and the i-th Column correspond to Entry(i).
type Schema struct {
	entries []Entry
	index   map[string]int
}

// NewSchema builds a schema with one entry per kind, each named after its
// kind. Repeated kinds get a numeric suffix ("int", "int_1", ...).
// TIMESTAMP entries use millisecond precision.
func NewSchema(kinds ...Kind) (*Schema, error) {
	entries := make([]Entry, len(kinds))
	seen := make(map[Kind]int, len(kinds))
	for i, k := range kinds {
		name := k.String()
		if n := seen[k]; n > 0 {
			name += "_" + strconv.Itoa(n)
		}
		seen[k]++
		entries[i] = Entry{Name: name, Kind: k, Precision: Milli}
	}
	return NewSchemaFromEntries(entries)
}

// ParseSchema builds a schema from type names such as "tinyint" or "nchar".
func ParseSchema(names []string) (*Schema, error) {
	kinds := make([]Kind, len(names))
	for i, n := range names {
		k, err := ParseKind(n)
		if err != nil {
			return nil, NewError(-1, i, "", NULL, err)
		}
		kinds[i] = k
	}
	return NewSchema(kinds...)
}

// NewSchemaFromEntries validates and copies entries into a new Schema.
// Names must be non-empty and unique, kinds must be column kinds.
func NewSchemaFromEntries(entries []Entry) (*Schema, error) {
	sc := &Schema{
		entries: make([]Entry, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	copy(sc.entries, entries)
	for i, e := range sc.entries {
		switch {
		case !e.Kind.IsColumnKind():
			return nil, NewError(-1, i, e.Name, e.Kind, ErrUnsupportedType)
		case e.Kind == TIMESTAMP && !e.Precision.Valid():
			return nil, NewError(-1, i, e.Name, e.Kind, fmt.Errorf("%w: invalid precision %s", ErrUnsupportedType, e.Precision))
		case e.Name == "":
			return nil, NewError(-1, i, e.Name, e.Kind, fmt.Errorf("%w: empty column name", ErrSchemaMismatch))
		}
		if _, dup := sc.index[e.Name]; dup {
			return nil, NewError(-1, i, e.Name, e.Kind, fmt.Errorf("%w: duplicate column name", ErrSchemaMismatch))
		}
		sc.index[e.Name] = i
	}
	return sc, nil
}

// Len returns the number of entries.
func (sc *Schema) Len() int { return len(sc.entries) }

// Entry returns the i-th entry.
func (sc *Schema) Entry(i int) Entry { return sc.entries[i] }

// Entries returns a copy of the entries.
func (sc *Schema) Entries() []Entry {
	out := make([]Entry, len(sc.entries))
	copy(out, sc.entries)
	return out
}

// Kinds returns the kind of every entry in order.
func (sc *Schema) Kinds() []Kind {
	out := make([]Kind, len(sc.entries))
	for i, e := range sc.entries {
		out[i] = e.Kind
	}
	return out
}

// FieldIndex returns the position of the named entry or -1.
func (sc *Schema) FieldIndex(name string) int {
	if i, ok := sc.index[name]; ok {
		return i
	}
	return -1
}

// Equal reports whether both schemas have the same entries in the same order.
func (sc *Schema) Equal(o *Schema) bool {
	if sc == o {
		return true
	}
	if sc == nil || o == nil || len(sc.entries) != len(o.entries) {
		return false
	}
	for i := range sc.entries {
		if sc.entries[i] != o.entries[i] {
			return false
		}
	}
	return true
}

func (sc *Schema) String() string {
	var b strings.Builder
	b.WriteString("schema:\n")
	for i, e := range sc.entries {
		fmt.Fprintf(&b, "  %d: %s\n", i, e)
	}
	return b.String()
}

// CheckValue verifies that v can be stored at entry col. It returns an
// *Error wrapping ErrNullNotSupported for nulls and ErrSchemaMismatch for a
// value of another kind.
func (sc *Schema) CheckValue(row, col int, v Field) error {
	e := sc.entries[col]
	switch {
	case v.kind == NULL:
		return NewError(row, col, e.Name, e.Kind, ErrNullNotSupported)
	case !v.kind.Valid():
		return NewError(row, col, e.Name, v.kind, ErrUnsupportedType)
	case v.kind != e.Kind:
		return NewError(row, col, e.Name, e.Kind, fmt.Errorf("%w: got %s value", ErrSchemaMismatch, v.kind))
	case v.kind == TIMESTAMP && v.prec != e.Precision:
		return NewError(row, col, e.Name, e.Kind, fmt.Errorf("%w: timestamp precision %s, schema uses %s", ErrSchemaMismatch, v.prec, e.Precision))
	}
	return nil
}

// CheckRow verifies the width and every value of the row at index i.
func (sc *Schema) CheckRow(i int, r Row) error {
	if len(r) != len(sc.entries) {
		return NewError(i, -1, "", NULL, fmt.Errorf("%w: row has %d values, schema has %d entries", ErrSchemaMismatch, len(r), len(sc.entries)))
	}
	for j, v := range r {
		if err := sc.CheckValue(i, j, v); err != nil {
			return err
		}
	}
	return nil
}

// CheckColumns verifies that cols has one column per entry, all of the same
// length, every value matching its entry. It returns the common length.
func (sc *Schema) CheckColumns(cols []Column) (int, error) {
	if len(cols) != len(sc.entries) {
		return 0, NewError(-1, -1, "", NULL, fmt.Errorf("%w: got %d columns, schema has %d entries", ErrSchemaMismatch, len(cols), len(sc.entries)))
	}
	nrows := 0
	for j, c := range cols {
		e := sc.entries[j]
		if c.Kind != e.Kind {
			return 0, NewError(-1, j, e.Name, e.Kind, fmt.Errorf("%w: column declared as %s", ErrSchemaMismatch, c.Kind))
		}
		if j == 0 {
			nrows = len(c.Values)
		} else if len(c.Values) != nrows {
			return 0, NewError(-1, j, e.Name, e.Kind, fmt.Errorf("%w: column has %d values, expected %d", ErrSchemaMismatch, len(c.Values), nrows))
		}
		for i, v := range c.Values {
			if err := sc.CheckValue(i, j, v); err != nil {
				return 0, err
			}
		}
	}
	return nrows, nil
}

// Transpose returns the column view of rows. Rows are not validated.
func Transpose(sc *Schema, rows []Row) []Column {
	cols := make([]Column, sc.Len())
	for j := range cols {
		cols[j] = Column{Kind: sc.entries[j].Kind, Values: make([]Field, 0, len(rows))}
	}
	for _, r := range rows {
		for j := range cols {
			if j < len(r) {
				cols[j].Values = append(cols[j].Values, r[j])
			}
		}
	}
	return cols
}

// Rows returns the row view of cols, which must all have the same length.
func Rows(cols []Column) []Row {
	if len(cols) == 0 {
		return nil
	}
	nrows := cols[0].Len()
	rows := make([]Row, nrows)
	for i := range rows {
		r := make(Row, len(cols))
		for j, c := range cols {
			r[j] = c.Values[i]
		}
		rows[i] = r
	}
	return rows
}
