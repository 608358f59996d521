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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgasync/pgasync/go/pgerrors"
	"github.com/pgasync/pgasync/go/pgtypes"
	"github.com/pgasync/pgasync/go/wire"
)

func TestBindParameterCountMismatch(t *testing.T) {
	fc := &fakeConn{}
	c := newTestClient(fc)
	stmt := testStatement(c) // declares one parameter

	_, err := c.Query(t.Context(), stmt)
	require.Error(t, err)

	var countErr *pgerrors.ParameterCountError
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, 1, countErr.Expected)
	assert.Equal(t, 0, countErr.Got)

	// Nothing reached the connection.
	assert.Empty(t, fc.sent)
}

func TestBindConversionFailureIndex(t *testing.T) {
	fc := &fakeConn{}
	c := newTestClient(fc)

	types := []pgtypes.Type{pgtypes.TypeInt4, pgtypes.TypeText, pgtypes.TypeText}
	stmt := NewStatement(c.Ref(), "s1", types, nil)

	_, err := c.Query(t.Context(), stmt, 1, struct{}{}, "never reached")
	require.Error(t, err)

	var convErr *pgerrors.ParameterConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, 1, convErr.Index)
	assert.Empty(t, fc.sent)
}

// countingParam records how often its serialization runs.
type countingParam struct {
	calls *int
	fail  bool
}

func (countingParam) Format(pgtypes.Type) int16 { return 0 }

func (p countingParam) Encode(pgtypes.Type) ([]byte, error) {
	*p.calls++
	if p.fail {
		return nil, errors.New("conversion refused")
	}
	return []byte("x"), nil
}

func TestEncodeBindShortCircuits(t *testing.T) {
	w := wire.NewMessageWriter()
	types := []pgtypes.Type{pgtypes.TypeText, pgtypes.TypeText, pgtypes.TypeText}

	var first, second, third int
	params := []pgtypes.Param{
		countingParam{calls: &first},
		countingParam{calls: &second, fail: true},
		countingParam{calls: &third},
	}

	err := encodeBind(w, "", "s1", types, params)
	require.Error(t, err)

	var convErr *pgerrors.ParameterConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, 1, convErr.Index)

	// Serialization stops at the failing parameter.
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, 0, third)
}

func TestEncodeBindNullAndEmpty(t *testing.T) {
	w := wire.NewMessageWriter()
	types := []pgtypes.Type{pgtypes.TypeText, pgtypes.TypeText}
	params := []pgtypes.Param{pgtypes.NewParam(nil), pgtypes.NewParam("")}

	require.NoError(t, encodeBind(w, "", "s1", types, params))

	r := wire.NewMessageReader(w.Bytes()[5:])
	_, err := r.ReadString() // portal
	require.NoError(t, err)
	_, err = r.ReadString() // statement
	require.NoError(t, err)

	count, err := r.ReadInt16()
	require.NoError(t, err)
	require.Equal(t, int16(2), count)
	for range count {
		_, err := r.ReadInt16()
		require.NoError(t, err)
	}

	count, err = r.ReadInt16()
	require.NoError(t, err)
	require.Equal(t, int16(2), count)

	v, err := r.ReadByteString()
	require.NoError(t, err)
	assert.Nil(t, v, "nil argument is sent as NULL")

	v, err = r.ReadByteString()
	require.NoError(t, err)
	require.NotNil(t, v, "empty string is sent as a zero-length value")
	assert.Empty(t, v)
}

func TestEncodeBindRequestsBinaryResults(t *testing.T) {
	w := wire.NewMessageWriter()
	require.NoError(t, encodeBind(w, "", "s1", nil, nil))

	body := w.Bytes()[5:]
	// Last four bytes: result format count 1, format code 1.
	assert.Equal(t, []byte{0x00, 0x01, 0x00, 0x01}, body[len(body)-4:])
}
