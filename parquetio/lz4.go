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
	"io"

	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/pierrec/lz4/v4"
)

// lz4Codec compresses pages as bare LZ4 blocks. Streams use the LZ4 frame
// format.
type lz4Codec struct{}

func init() {
	compress.RegisterCodec(compress.Codecs.Lz4, lz4Codec{})
}

func (lz4Codec) NewReader(r io.Reader) io.ReadCloser {
	return io.NopCloser(lz4.NewReader(r))
}

func (lz4Codec) NewWriter(w io.Writer) io.WriteCloser {
	return lz4.NewWriter(w)
}

func (lz4Codec) NewWriterLevel(w io.Writer, level int) (io.WriteCloser, error) {
	out := lz4.NewWriter(w)
	if level == compress.DefaultCompressionLevel {
		return out, out.Apply(lz4.CompressionLevelOption(lz4.Fast))
	}
	return out, out.Apply(lz4.CompressionLevelOption(lz4.CompressionLevel(level)))
}

func (lz4Codec) CompressBound(n int64) int64 {
	return int64(lz4.CompressBlockBound(int(n)))
}

func (c lz4Codec) Encode(dst, src []byte) []byte {
	dst = c.grow(dst, len(src))
	var comp lz4.Compressor
	n, err := comp.CompressBlock(src, dst)
	if err != nil {
		panic(err)
	}
	return dst[:n]
}

func (c lz4Codec) EncodeLevel(dst, src []byte, level int) []byte {
	if level == compress.DefaultCompressionLevel {
		return c.Encode(dst, src)
	}
	dst = c.grow(dst, len(src))
	comp := lz4.CompressorHC{Level: lz4.CompressionLevel(level)}
	n, err := comp.CompressBlock(src, dst)
	if err != nil {
		panic(err)
	}
	return dst[:n]
}

// Decode needs dst sized to the uncompressed length; a nil dst is grown
// until the block fits.
func (lz4Codec) Decode(dst, src []byte) []byte {
	if dst != nil {
		n, err := lz4.UncompressBlock(src, dst)
		if err != nil {
			panic(err)
		}
		return dst[:n]
	}
	for size := 4*len(src) + 64; ; size *= 2 {
		buf := make([]byte, size)
		n, err := lz4.UncompressBlock(src, buf)
		if err == nil {
			return buf[:n]
		}
		if err != lz4.ErrInvalidSourceShortBuffer || size > 1<<30 {
			panic(err)
		}
	}
}

// grow returns dst resliced to its capacity, reallocated when the capacity
// cannot hold the worst case for n input bytes.
func (lz4Codec) grow(dst []byte, n int) []byte {
	bound := lz4.CompressBlockBound(n)
	if cap(dst) < bound {
		return make([]byte, bound)
	}
	return dst[:cap(dst)]
}
