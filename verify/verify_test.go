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

package verify_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/hamba/avro/v2/ocf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhaoyanggh/taosx-data-format-bench/avroio"
	"github.com/zhaoyanggh/taosx-data-format-bench/field"
	"github.com/zhaoyanggh/taosx-data-format-bench/internal/datagen"
	"github.com/zhaoyanggh/taosx-data-format-bench/parquetio"
	"github.com/zhaoyanggh/taosx-data-format-bench/verify"
)

type artifacts struct {
	rows    int64
	avro    []byte
	parquet []byte
}

func encodeBoth(t *testing.T, n int) artifacts {
	t.Helper()
	fsc, err := field.NewSchema(field.AllKinds...)
	require.NoError(t, err)
	rows, cols := datagen.New(uint64(n)).Generate(fsc, n)

	asc, err := avroio.BuildSchema(fsc)
	require.NoError(t, err)
	a, err := avroio.EncodeToBuffer(asc, rows, ocf.Deflate)
	require.NoError(t, err)

	psc, err := parquetio.BuildSchema(fsc)
	require.NoError(t, err)
	p, err := parquetio.EncodeColumnsToBuffer(psc, cols, compress.Codecs.Snappy)
	require.NoError(t, err)
	return artifacts{rows: int64(n), avro: a, parquet: p}
}

func TestSniff(t *testing.T) {
	tests := []struct {
		head []byte
		want verify.Format
		err  error
	}{
		{[]byte("Obj\x01rest"), verify.Avro, nil},
		{[]byte("PAR1rest"), verify.Parquet, nil},
		{[]byte("Obj"), verify.Unknown, field.ErrCorruptContainer},
		{nil, verify.Unknown, field.ErrCorruptContainer},
		{[]byte("PK\x03\x04"), verify.Unknown, field.ErrCorruptContainer},
	}
	for _, tt := range tests {
		got, err := verify.Sniff(tt.head)
		assert.Equal(t, tt.want, got)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err)
		} else {
			assert.NoError(t, err)
		}
	}
}

func TestFormatNames(t *testing.T) {
	for _, f := range []verify.Format{verify.Avro, verify.Parquet} {
		got, err := verify.ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	assert.Equal(t, ".parquet", verify.Parquet.Ext())
	assert.Equal(t, "", verify.Unknown.Ext())
	_, err := verify.ParseFormat("orc")
	assert.ErrorIs(t, err, field.ErrUnsupportedType)
}

func TestRowCountFromBuffer(t *testing.T) {
	a := encodeBoth(t, 1000)

	n, format, err := verify.RowCountFromBuffer(a.avro)
	require.NoError(t, err)
	assert.Equal(t, verify.Avro, format)
	assert.Equal(t, a.rows, n)

	n, format, err = verify.RowCountFromBuffer(a.parquet)
	require.NoError(t, err)
	assert.Equal(t, verify.Parquet, format)
	assert.Equal(t, a.rows, n)

	assert.NoError(t, verify.CheckBuffer(a.avro, a.rows))
	assert.NoError(t, verify.CheckBuffer(a.parquet, a.rows))
	assert.ErrorIs(t, verify.CheckBuffer(a.parquet, a.rows+1), verify.ErrRowCountMismatch)
	assert.ErrorIs(t, verify.CheckBuffer([]byte("junk"), 0), field.ErrCorruptContainer)
}

func TestRowCountFromFile(t *testing.T) {
	a := encodeBoth(t, 64)
	dir := t.TempDir()
	avroPath := filepath.Join(dir, "data.avro")
	parquetPath := filepath.Join(dir, "data.parquet")
	require.NoError(t, os.WriteFile(avroPath, a.avro, 0o644))
	require.NoError(t, os.WriteFile(parquetPath, a.parquet, 0o644))

	for _, path := range []string{avroPath, parquetPath} {
		n, _, err := verify.RowCountFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, a.rows, n)
		assert.NoError(t, verify.CheckFile(path, a.rows))
		assert.ErrorIs(t, verify.CheckFile(path, 0), verify.ErrRowCountMismatch)
	}

	_, _, err := verify.RowCountFromFile(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, field.ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	short := filepath.Join(dir, "short")
	require.NoError(t, os.WriteFile(short, []byte("PA"), 0o644))
	_, _, err = verify.RowCountFromFile(short)
	assert.ErrorIs(t, err, field.ErrCorruptContainer)
}

func TestExpect(t *testing.T) {
	assert.NoError(t, verify.Expect(0, 0))
	assert.NoError(t, verify.Expect(10000, 10000))
	err := verify.Expect(9999, 10000)
	assert.ErrorIs(t, err, verify.ErrRowCountMismatch)
	assert.EqualError(t, err, "row count mismatch: decoded 9999 rows, wrote 10000")
}

func TestEmptyArtifacts(t *testing.T) {
	a := encodeBoth(t, 0)
	assert.NoError(t, verify.CheckBuffer(a.avro, 0))
	assert.NoError(t, verify.CheckBuffer(a.parquet, 0))
}

func TestDigest(t *testing.T) {
	a := encodeBoth(t, 100)
	b := encodeBoth(t, 100)
	assert.Equal(t, verify.Digest(a.parquet), verify.Digest(b.parquet))
	assert.NotEqual(t, verify.Digest(a.parquet), verify.Digest(a.avro))
}
