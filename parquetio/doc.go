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

// Package parquetio stores field columns in parquet files.
//
// Every schema entry becomes an optional leaf of a single root group, typed
// by PhysicalType and annotated by Node. UINT and UBIGINT are reinterpreted
// bit for bit into INT32 and INT64; their converted type lets KindOf recover
// the unsigned kind when the file is read back.
//
// Two write strategies are provided. The batched strategy (WriteColumns)
// emits one row group with one column chunk per entry; the per-row strategy
// (WriteRow) emits one row group per row. Readers accept both.
package parquetio
