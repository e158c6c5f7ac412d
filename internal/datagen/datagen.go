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

// Package datagen produces seeded synthetic datasets for a field.Schema.
package datagen

import (
	"github.com/zhaoyanggh/taosx-data-format-bench/field"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// StringLen is the length of generated BINARY and NCHAR values.
const StringLen = 30

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generator draws values from a deterministic source. Two generators built
// from the same seed produce the same datasets.
type Generator struct {
	seed  uint64
	extra uint64
	src   rand.Source
	rng   *rand.Rand

	flip    distuv.Bernoulli
	uniform distuv.Uniform
}

// New returns a generator seeded with seed.
func New(seed uint64) *Generator {
	src := rand.NewSource(seed)
	g := &Generator{seed: seed, src: src, rng: rand.New(src)}
	g.flip = distuv.Bernoulli{P: 0.5, Src: g.nextSource()}
	g.uniform = distuv.Uniform{Min: 0, Max: 1, Src: g.nextSource()}
	return g
}

func (g *Generator) nextSource() rand.Source {
	g.extra++
	return rand.NewSource(g.seed + g.extra)
}

// Seed returns the seed the generator was built with.
func (g *Generator) Seed() uint64 { return g.seed }

// Value draws one value of entry e. Integers cover their full range,
// floating point values are uniform in [0, 1) and timestamps are arbitrary
// int64 counts of e.Precision.
func (g *Generator) Value(e field.Entry) field.Field {
	switch e.Kind {
	case field.BOOL:
		return field.Bool(g.flip.Rand() != 0)
	case field.TINYINT:
		return field.TinyInt(int8(g.rng.Uint32()))
	case field.UTINYINT:
		return field.UTinyInt(uint8(g.rng.Uint32()))
	case field.SMALLINT:
		return field.SmallInt(int16(g.rng.Uint32()))
	case field.USMALLINT:
		return field.USmallInt(uint16(g.rng.Uint32()))
	case field.INT:
		return field.Int(int32(g.rng.Uint32()))
	case field.UINT:
		return field.UInt(g.rng.Uint32())
	case field.BIGINT:
		return field.BigInt(int64(g.rng.Uint64()))
	case field.UBIGINT:
		return field.UBigInt(g.rng.Uint64())
	case field.FLOAT:
		return field.Float(float32(g.uniform.Rand()))
	case field.DOUBLE:
		return field.Double(g.uniform.Rand())
	case field.TIMESTAMP:
		return field.Timestamp(int64(g.rng.Uint64()), e.Precision)
	case field.BINARY:
		return field.Binary([]byte(g.String(StringLen)))
	case field.NCHAR:
		return field.NChar(g.String(StringLen))
	}
	return field.Null()
}

// String returns n random alphanumeric characters.
func (g *Generator) String(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = alphanumeric[g.rng.Intn(len(alphanumeric))]
	}
	return string(buf)
}

// Rows draws n rows of sc.
func (g *Generator) Rows(sc *field.Schema, n int) []field.Row {
	rows := make([]field.Row, n)
	for i := range rows {
		row := make(field.Row, sc.Len())
		for j := range row {
			row[j] = g.Value(sc.Entry(j))
		}
		rows[i] = row
	}
	return rows
}

// Generate draws n rows of sc and returns them both row-wise and
// column-wise. Both views hold the same values.
func (g *Generator) Generate(sc *field.Schema, n int) ([]field.Row, []field.Column) {
	rows := g.Rows(sc, n)
	return rows, field.Transpose(sc, rows)
}
