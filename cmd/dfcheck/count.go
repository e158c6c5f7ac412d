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

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/zhaoyanggh/taosx-data-format-bench/avroio"
	"github.com/zhaoyanggh/taosx-data-format-bench/field"
	"github.com/zhaoyanggh/taosx-data-format-bench/parquetio"
	"github.com/zhaoyanggh/taosx-data-format-bench/verify"
)

// count prints the format and row count of every file, and with verbose
// the container summary. It keeps going past failures and returns the
// first one.
func count(w io.Writer, files []string, verbose bool) error {
	var first error
	for _, path := range files {
		n, format, err := verify.RowCountFromFile(path)
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", path, err)
			if first == nil {
				first = err
			}
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\n", path, format, n)
		if verbose {
			if err := describe(w, path, format); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

func describe(w io.Writer, path string, format verify.Format) error {
	f, err := os.Open(path)
	if err != nil {
		return field.IOError("open", path, err)
	}
	defer f.Close()

	switch format {
	case verify.Parquet:
		return parquetio.Dump(w, f)
	case verify.Avro:
		rdr, err := avroio.NewReader(f)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "codec: %s\n", rdr.Codec())
		fmt.Fprintf(w, "schema: %s\n", rdr.Schema())
	}
	return nil
}
