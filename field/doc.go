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

// Package field defines the typed value model shared by the row and column
// encoders: a closed set of logical kinds, the Field tagged value, and the
// Schema, Row and Column containers built from them.
//
// A Schema is the single source of truth for both layouts. Row i, position j
// and Column j, value i refer to the same datum when a dataset is expressed
// both ways.
//
// The package also holds the error values returned by the encoders.
package field
