// Copyright 2025 The pgasync Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sqltypes provides value types for query results that preserve
// the NULL vs empty string distinction.
package sqltypes

// Value represents a nullable column value.
// nil means NULL, []byte{} means empty string.
type Value []byte

// IsNull returns true if the value is NULL.
func (v Value) IsNull() bool {
	return v == nil
}

// MakeValues converts raw wire values to Values.
// nil entries represent NULL values.
func MakeValues(raw [][]byte) []Value {
	values := make([]Value, len(raw))
	for i, v := range raw {
		if v == nil {
			values[i] = nil
		} else {
			values[i] = Value(v)
		}
	}
	return values
}
