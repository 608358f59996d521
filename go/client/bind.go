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

package client

import (
	"github.com/pgasync/pgasync/go/pgerrors"
	"github.com/pgasync/pgasync/go/pgtypes"
	"github.com/pgasync/pgasync/go/protocol"
	"github.com/pgasync/pgasync/go/wire"
)

// Results are always requested in binary format.
var resultFormats = []int16{protocol.FormatBinary}

// encodeBind appends a Bind message binding params to the named statement
// under the given portal. The parameter count must match the statement's
// declared types exactly. Values are serialized in parameter order and the
// first conversion failure aborts the encode, reporting the failing index;
// the format list is collected up front and is complete even when a later
// value fails to serialize.
func encodeBind(w *wire.MessageWriter, portal, statement string, types []pgtypes.Type, params []pgtypes.Param) error {
	if len(params) != len(types) {
		return &pgerrors.ParameterCountError{Expected: len(types), Got: len(params)}
	}

	formats := make([]int16, len(params))
	for i, p := range params {
		formats[i] = p.Format(types[i])
	}

	values := make([][]byte, len(params))
	for i, p := range params {
		v, err := p.Encode(types[i])
		if err != nil {
			return &pgerrors.ParameterConversionError{Index: i, Err: err}
		}
		values[i] = v
	}

	if err := wire.Bind(w, portal, statement, formats, values, resultFormats); err != nil {
		return &pgerrors.SerializationError{Err: err}
	}
	return nil
}
