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

// Package avroio is the row oriented encoder: every Row becomes one record
// of an Avro object container file, every record self-contained and bound
// by field name to the compiled schema.
//
// Types are projected with PhysicalType. The container holds only the
// primitive Avro types, so unsigned and timestamp kinds lose their logical
// annotation and readers have to agree on them out of band; ReadRows takes
// the originating field.Schema for that reason.
//
// Null values are rejected with field.ErrNullNotSupported.
package avroio
