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

package pgtypes

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pgasync/pgasync/go/protocol"
)

// Param is a value that can be bound to a statement parameter. The binder
// asks each value for its preferred wire format for the target type, then
// serializes it against that type.
type Param interface {
	// Format returns the wire format code (0=text, 1=binary) this value
	// wants for the target type.
	Format(t Type) int16

	// Encode serializes the value for the target type.
	// A nil result with a nil error means NULL.
	Encode(t Type) ([]byte, error)
}

// NewParam wraps an arbitrary Go value as a bindable parameter. Values that
// already implement Param are passed through; native Go values are encoded
// in text format.
// Supported native types: nil, string, []byte, int, int32, int64, uint32,
// uint64, float32, float64, bool, and time.Time.
func NewParam(v any) Param {
	if p, ok := v.(Param); ok {
		return p
	}
	return textValue{v: v}
}

// NewParams wraps a slice of arbitrary Go values as bindable parameters.
func NewParams(vs []any) []Param {
	params := make([]Param, len(vs))
	for i, v := range vs {
		params[i] = NewParam(v)
	}
	return params
}

// Binary wraps pre-encoded bytes as a binary-format parameter.
// nil is sent as NULL.
func Binary(b []byte) Param {
	return binaryValue(b)
}

// TypedValue pairs a parameter value with its declared type for the ad-hoc
// query path, which sends the type OIDs in the Parse message.
type TypedValue struct {
	Value Param
	Type  Type
}

type textValue struct {
	v any
}

func (textValue) Format(Type) int16 {
	return protocol.FormatText
}

// Encode converts a native Go value to PostgreSQL text format.
func (p textValue) Encode(Type) ([]byte, error) {
	if p.v == nil {
		return nil, nil // NULL is represented as nil
	}

	switch v := p.v.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case int:
		return []byte(strconv.FormatInt(int64(v), 10)), nil
	case int32:
		return []byte(strconv.FormatInt(int64(v), 10)), nil
	case int64:
		return []byte(strconv.FormatInt(v, 10)), nil
	case uint32:
		return []byte(strconv.FormatUint(uint64(v), 10)), nil
	case uint64:
		return []byte(strconv.FormatUint(v, 10)), nil
	case float32:
		return []byte(strconv.FormatFloat(float64(v), 'f', -1, 32)), nil
	case float64:
		return []byte(strconv.FormatFloat(v, 'f', -1, 64)), nil
	case bool:
		if v {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case time.Time:
		// Use RFC3339 format which PostgreSQL understands.
		return []byte(v.Format(time.RFC3339Nano)), nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", p.v)
	}
}

type binaryValue []byte

func (binaryValue) Format(Type) int16 {
	return protocol.FormatBinary
}

func (p binaryValue) Encode(Type) ([]byte, error) {
	return p, nil
}
