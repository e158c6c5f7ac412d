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

package verify

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zeebo/xxh3"
	"github.com/zhaoyanggh/taosx-data-format-bench/avroio"
	"github.com/zhaoyanggh/taosx-data-format-bench/field"
	"github.com/zhaoyanggh/taosx-data-format-bench/parquetio"
)

// ErrRowCountMismatch is returned when a decoded artifact does not hold the
// number of rows it was written with.
var ErrRowCountMismatch = errors.New("row count mismatch")

// Format identifies a container format.
type Format int8

const (
	Unknown Format = iota
	Avro
	Parquet
)

var (
	avroMagic    = []byte("Obj\x01")
	parquetMagic = []byte("PAR1")
)

// magicLen is the length of both container magics.
const magicLen = 4

func (f Format) String() string {
	switch f {
	case Avro:
		return "avro"
	case Parquet:
		return "parquet"
	}
	return "unknown"
}

// Ext returns the file extension used for artifacts of format f.
func (f Format) Ext() string {
	if f == Unknown {
		return ""
	}
	return "." + f.String()
}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "avro":
		return Avro, nil
	case "parquet":
		return Parquet, nil
	}
	return Unknown, fmt.Errorf("%w: unknown format %q", field.ErrUnsupportedType, s)
}

// Sniff identifies the format of an artifact from its leading bytes.
func Sniff(head []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(head, avroMagic):
		return Avro, nil
	case bytes.HasPrefix(head, parquetMagic):
		return Parquet, nil
	}
	return Unknown, fmt.Errorf("%w: unrecognized magic %q", field.ErrCorruptContainer, head[:min(len(head), magicLen)])
}

// SniffFile identifies the format of the file at path.
func SniffFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, field.IOError("open", path, err)
	}
	defer f.Close()

	head := make([]byte, magicLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Unknown, field.IOError("read", path, err)
	}
	return Sniff(head[:n])
}

// RowCountFromBuffer decodes an in-memory artifact of either format and
// returns its row count.
func RowCountFromBuffer(b []byte) (int64, Format, error) {
	format, err := Sniff(b)
	if err != nil {
		return 0, Unknown, err
	}
	var n int64
	switch format {
	case Avro:
		n, err = avroio.ReadRowCountFromBuffer(b)
	case Parquet:
		n, err = parquetio.ReadRowCountFromBuffer(b)
	}
	return n, format, err
}

// RowCountFromFile decodes the artifact at path and returns its row count.
func RowCountFromFile(path string) (int64, Format, error) {
	format, err := SniffFile(path)
	if err != nil {
		return 0, Unknown, err
	}
	var n int64
	switch format {
	case Avro:
		n, err = avroio.ReadRowCountFromFile(path)
	case Parquet:
		n, err = parquetio.ReadRowCountFromFile(path)
	}
	return n, format, err
}

// Expect returns ErrRowCountMismatch unless got equals want.
func Expect(got, want int64) error {
	if got != want {
		return fmt.Errorf("%w: decoded %d rows, wrote %d", ErrRowCountMismatch, got, want)
	}
	return nil
}

// CheckBuffer verifies that the in-memory artifact b decodes to want rows.
func CheckBuffer(b []byte, want int64) error {
	got, format, err := RowCountFromBuffer(b)
	if err != nil {
		return err
	}
	if err := Expect(got, want); err != nil {
		return fmt.Errorf("%s buffer: %w", format, err)
	}
	return nil
}

// CheckFile verifies that the artifact at path decodes to want rows.
func CheckFile(path string, want int64) error {
	got, format, err := RowCountFromFile(path)
	if err != nil {
		return err
	}
	if err := Expect(got, want); err != nil {
		return fmt.Errorf("%s file %s: %w", format, path, err)
	}
	return nil
}

// Digest returns the xxh3 hash of an artifact's bytes. Encoding the same
// input twice yields the same digest.
func Digest(b []byte) uint64 { return xxh3.Hash(b) }
