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

package avroio_test

import (
	"bytes"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/hamba/avro/v2"
	"github.com/hamba/avro/v2/ocf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhaoyanggh/taosx-data-format-bench/avroio"
	"github.com/zhaoyanggh/taosx-data-format-bench/field"
	"github.com/zhaoyanggh/taosx-data-format-bench/internal/datagen"
)

func mustSchema(t testing.TB, kinds ...field.Kind) *avroio.Schema {
	t.Helper()
	fsc, err := field.NewSchema(kinds...)
	require.NoError(t, err)
	sc, err := avroio.BuildSchema(fsc)
	require.NoError(t, err)
	return sc
}

func TestPhysicalTypes(t *testing.T) {
	tests := []struct {
		kind field.Kind
		want avro.Type
	}{
		{field.BOOL, avro.Boolean},
		{field.TINYINT, avro.Int},
		{field.UTINYINT, avro.Int},
		{field.SMALLINT, avro.Int},
		{field.USMALLINT, avro.Int},
		{field.INT, avro.Int},
		{field.UINT, avro.Long},
		{field.BIGINT, avro.Long},
		{field.UBIGINT, avro.Long},
		{field.FLOAT, avro.Float},
		{field.DOUBLE, avro.Double},
		{field.TIMESTAMP, avro.Long},
		{field.BINARY, avro.Bytes},
		{field.NCHAR, avro.String},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got, err := avroio.PhysicalType(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := avroio.PhysicalType(field.NULL)
	assert.ErrorIs(t, err, field.ErrUnsupportedType)
}

func TestBuildSchema(t *testing.T) {
	sc := mustSchema(t, field.AllKinds...)
	assert.Equal(t, avroio.RecordName, sc.Avro().Name())
	require.Len(t, sc.Avro().Fields(), len(field.AllKinds))
	for i, f := range sc.Avro().Fields() {
		assert.Equal(t, field.AllKinds[i].String(), f.Name())
	}
	assert.JSONEq(t, `{"type":"record","name":"m1","fields":[{"name":"int","type":"int"},{"name":"nchar","type":"string"}]}`,
		mustSchema(t, field.INT, field.NCHAR).String())
}

func TestRoundTripAllKinds(t *testing.T) {
	fsc, err := field.NewSchema(field.AllKinds...)
	require.NoError(t, err)
	sc, err := avroio.BuildSchema(fsc)
	require.NoError(t, err)
	rows := datagen.New(42).Rows(fsc, 500)

	for _, codec := range avroio.Codecs() {
		t.Run(string(codec), func(t *testing.T) {
			buf, err := avroio.EncodeToBuffer(sc, rows, codec)
			require.NoError(t, err)

			n, err := avroio.ReadRowCountFromBuffer(buf)
			require.NoError(t, err)
			assert.EqualValues(t, 500, n)

			got, err := avroio.ReadRows(bytes.NewReader(buf), fsc)
			require.NoError(t, err)
			require.Len(t, got, len(rows))
			for i := range rows {
				for j := range rows[i] {
					assert.Truef(t, rows[i][j].Equal(got[i][j]), "row %d column %d: %s != %s", i, j, rows[i][j], got[i][j])
				}
			}

			rdr, err := avroio.NewReader(bytes.NewReader(buf))
			require.NoError(t, err)
			assert.Equal(t, codec, rdr.Codec())
		})
	}
}

func TestSingleRow(t *testing.T) {
	sc := mustSchema(t, field.INT, field.BOOL, field.NCHAR)
	rows := []field.Row{{field.Int(-5), field.Bool(true), field.NChar("x")}}

	buf, err := avroio.EncodeToBuffer(sc, rows, ocf.Null)
	require.NoError(t, err)
	n, err := avroio.ReadRowCountFromBuffer(buf)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := avroio.ReadRows(bytes.NewReader(buf), sc.Fields())
	require.NoError(t, err)
	assert.Equal(t, int32(-5), got[0][0].Int())
	assert.True(t, got[0][1].Bool())
	assert.Equal(t, "x", got[0][2].NChar())
}

func TestEmptyInput(t *testing.T) {
	sc := mustSchema(t, field.INT, field.DOUBLE)
	buf, err := avroio.EncodeToBuffer(sc, nil, ocf.Deflate)
	require.NoError(t, err)
	assert.NotEmpty(t, buf)

	n, err := avroio.ReadRowCountFromBuffer(buf)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUnsignedExtremes(t *testing.T) {
	sc := mustSchema(t, field.UBIGINT, field.UINT)
	rows := []field.Row{
		{field.UBigInt(math.MaxUint64), field.UInt(math.MaxUint32)},
		{field.UBigInt(0), field.UInt(0)},
	}
	buf, err := avroio.EncodeToBuffer(sc, rows, ocf.Null)
	require.NoError(t, err)

	dec, err := ocf.NewDecoder(bytes.NewReader(buf))
	require.NoError(t, err)
	require.True(t, dec.HasNext())
	var rec map[string]interface{}
	require.NoError(t, dec.Decode(&rec))
	// UBIGINT is reinterpreted, UINT widened
	assert.Equal(t, int64(-1), rec["ubigint"])
	assert.Equal(t, int64(math.MaxUint32), rec["uint"])

	got, err := avroio.ReadRows(bytes.NewReader(buf), sc.Fields())
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), got[0][0].UBigInt())
	assert.Equal(t, uint32(math.MaxUint32), got[0][1].UInt())
}

func TestCompressionShrinks(t *testing.T) {
	fsc, err := field.NewSchema(field.BINARY)
	require.NoError(t, err)
	sc, err := avroio.BuildSchema(fsc)
	require.NoError(t, err)
	// a small alphabet compresses well
	rows := make([]field.Row, 10000)
	for i := range rows {
		rows[i] = field.Row{field.Binary([]byte("abababababcdcdcdcdcdabababcdcd"))}
	}

	plain, err := avroio.EncodeToBuffer(sc, rows, ocf.Null)
	require.NoError(t, err)
	deflated, err := avroio.EncodeToBuffer(sc, rows, ocf.Deflate)
	require.NoError(t, err)
	assert.Less(t, len(deflated), len(plain))

	n, err := avroio.ReadRowCountFromBuffer(deflated)
	require.NoError(t, err)
	assert.EqualValues(t, 10000, n)
}

func TestDeterministicEncoding(t *testing.T) {
	fsc, err := field.NewSchema(field.AllKinds...)
	require.NoError(t, err)
	sc, err := avroio.BuildSchema(fsc)
	require.NoError(t, err)
	rows := datagen.New(7).Rows(fsc, 100)

	first, err := avroio.EncodeToBuffer(sc, rows, ocf.Null)
	require.NoError(t, err)
	second, err := avroio.EncodeToBuffer(sc, rows, ocf.Null)
	require.NoError(t, err)

	// containers carry a random sync marker, so compare decoded rows
	a, err := avroio.ReadRows(bytes.NewReader(first), fsc)
	require.NoError(t, err)
	b, err := avroio.ReadRows(bytes.NewReader(second), fsc)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWriterErrors(t *testing.T) {
	sc := mustSchema(t, field.INT, field.BOOL)

	var buf bytes.Buffer
	w, err := avroio.NewWriter(&buf, sc)
	require.NoError(t, err)

	err = w.Append(field.Row{field.Int(1), field.Null()})
	assert.ErrorIs(t, err, field.ErrNullNotSupported)
	var fe *field.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 0, fe.Row)
	assert.Equal(t, 1, fe.Column)
	assert.Equal(t, field.BOOL, fe.Kind)

	assert.ErrorIs(t, w.Append(field.Row{field.BigInt(1), field.Bool(true)}), field.ErrSchemaMismatch)
	assert.ErrorIs(t, w.Append(field.Row{field.Int(1)}), field.ErrSchemaMismatch)

	require.NoError(t, w.Append(field.Row{field.Int(1), field.Bool(false)}))
	assert.EqualValues(t, 1, w.NumRows())
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
	assert.ErrorIs(t, w.Append(field.Row{field.Int(2), field.Bool(true)}), avroio.ErrWriterClosed)

	n, err := avroio.ReadRowCountFromBuffer(buf.Bytes())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = avroio.NewWriter(&buf, sc, avroio.WithCodec("lzma"))
	assert.ErrorIs(t, err, field.ErrUnsupportedType)
}

func TestWriteFile(t *testing.T) {
	sc := mustSchema(t, field.INT, field.NCHAR)
	dir := t.TempDir()

	t.Run("ok", func(t *testing.T) {
		path := filepath.Join(dir, "ok.avro")
		rows := []field.Row{{field.Int(1), field.NChar("a")}, {field.Int(2), field.NChar("b")}}
		require.NoError(t, avroio.WriteFile(path, sc, rows, ocf.Snappy))
		n, err := avroio.ReadRowCountFromFile(path)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})

	t.Run("null leaves no file", func(t *testing.T) {
		path := filepath.Join(dir, "null.avro")
		rows := []field.Row{{field.Int(1), field.NChar("a")}, {field.Int(2), field.Null()}}
		err := avroio.WriteFile(path, sc, rows, ocf.Null)
		assert.ErrorIs(t, err, field.ErrNullNotSupported)
		_, err = os.Stat(path)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("missing dir", func(t *testing.T) {
		err := avroio.WriteFile(filepath.Join(dir, "nope", "x.avro"), sc, nil, ocf.Null)
		assert.ErrorIs(t, err, field.ErrIO)
	})
}

func TestReadErrors(t *testing.T) {
	_, err := avroio.ReadRowCountFromFile(filepath.Join(t.TempDir(), "missing.avro"))
	assert.ErrorIs(t, err, field.ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = avroio.ReadRowCountFromBuffer([]byte("PAR1 not avro"))
	assert.ErrorIs(t, err, field.ErrCorruptContainer)

	_, err = avroio.ReadRowCountFromBuffer(nil)
	assert.ErrorIs(t, err, field.ErrCorruptContainer)

	fsc, err := field.NewSchema(field.BIGINT, field.NCHAR)
	require.NoError(t, err)
	sc, err := avroio.BuildSchema(fsc)
	require.NoError(t, err)
	rows := datagen.New(3).Rows(fsc, 2000)
	buf, err := avroio.EncodeToBuffer(sc, rows, ocf.Null)
	require.NoError(t, err)

	_, err = avroio.ReadRowCountFromBuffer(buf[:12])
	assert.ErrorIs(t, err, field.ErrCorruptContainer)

	// a block ending in the wrong sync marker
	bad := bytes.Clone(buf)
	for i := len(bad) - 16; i < len(bad); i++ {
		bad[i] ^= 0xff
	}
	_, err = avroio.ReadRowCountFromBuffer(bad)
	assert.ErrorIs(t, err, field.ErrCorruptContainer)

	other, err := field.NewSchema(field.BIGINT, field.BINARY)
	require.NoError(t, err)
	_, err = avroio.ReadRows(bytes.NewReader(buf), other)
	assert.ErrorIs(t, err, field.ErrSchemaMismatch)
}

func TestReaderHeader(t *testing.T) {
	sc := mustSchema(t, field.INT, field.NCHAR)
	buf, err := avroio.EncodeToBuffer(sc, datagen.New(5).Rows(sc.Fields(), 10), ocf.Deflate)
	require.NoError(t, err)

	rdr, err := avroio.NewReader(bytes.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, avroio.RecordName, rdr.Schema().Name())
	assert.Len(t, rdr.Schema().Fields(), 2)
	assert.Equal(t, ocf.Deflate, rdr.Codec())

	// a container holding bare longs
	var longs bytes.Buffer
	enc, err := ocf.NewEncoder(`"long"`, &longs)
	require.NoError(t, err)
	require.NoError(t, enc.Encode(int64(5)))
	require.NoError(t, enc.Close())

	_, err = avroio.NewReader(bytes.NewReader(longs.Bytes()))
	assert.ErrorIs(t, err, field.ErrSchemaMismatch)
	_, err = avroio.ReadRowCountFromBuffer(longs.Bytes())
	assert.ErrorIs(t, err, field.ErrSchemaMismatch)
}

func TestReadArrow(t *testing.T) {
	mem := memory.NewGoAllocator()

	fsc, err := field.NewSchema(field.INT, field.BIGINT, field.DOUBLE, field.NCHAR)
	require.NoError(t, err)
	sc, err := avroio.BuildSchema(fsc)
	require.NoError(t, err)
	buf, err := avroio.EncodeToBuffer(sc, datagen.New(11).Rows(fsc, 250), ocf.Null)
	require.NoError(t, err)

	var batches int
	schema, n, err := avroio.ReadArrow(bytes.NewReader(buf), mem, 100, func(rec arrow.Record) error {
		batches++
		assert.EqualValues(t, 4, rec.NumCols())
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 250, n)
	assert.GreaterOrEqual(t, batches, 1)
	assert.Equal(t, "int", schema.Field(0).Name)
	assert.Equal(t, arrow.PrimitiveTypes.Int32, schema.Field(0).Type)
}

func BenchmarkEncodeToBuffer(b *testing.B) {
	fsc, err := field.NewSchema(field.AllKinds...)
	require.NoError(b, err)
	sc, err := avroio.BuildSchema(fsc)
	require.NoError(b, err)
	rows := datagen.New(1).Rows(fsc, 1000)

	for _, codec := range []ocf.CodecName{ocf.Null, ocf.Deflate} {
		b.Run(string(codec), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := avroio.EncodeToBuffer(sc, rows, codec); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkWriteFile(b *testing.B) {
	fsc, err := field.NewSchema(field.AllKinds...)
	require.NoError(b, err)
	sc, err := avroio.BuildSchema(fsc)
	require.NoError(b, err)
	rows := datagen.New(1).Rows(fsc, 1000)
	path := filepath.Join(b.TempDir(), "bench.avro")

	for i := 0; i < b.N; i++ {
		if err := avroio.WriteFile(path, sc, rows, ocf.Deflate); err != nil {
			b.Fatal(err)
		}
	}
}
