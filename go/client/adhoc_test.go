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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgasync/pgasync/go/pgerrors"
	"github.com/pgasync/pgasync/go/pgtypes"
	"github.com/pgasync/pgasync/go/protocol"
	"github.com/pgasync/pgasync/go/wire"
)

func adhocParams() []pgtypes.TypedValue {
	return []pgtypes.TypedValue{
		{Value: pgtypes.NewParam(7), Type: pgtypes.TypeInt4},
	}
}

func TestQueryWithParamTypes(t *testing.T) {
	fc := &fakeConn{}
	c := newTestClient(fc)

	fc.script(
		wire.ParseComplete{},
		wire.BindComplete{},
		wire.ParameterDescription{TypeOIDs: []uint32{pgtypes.OIDInt4}},
		wire.RowDescription{Fields: []wire.FieldDescription{
			{Name: "id", TableOID: 16384, ColumnID: 1, TypeOID: pgtypes.OIDInt4},
			{Name: "note", TypeOID: pgtypes.OIDText},
		}},
		dataRow([]byte("7"), []byte("hi")),
		wire.CommandComplete{Tag: "SELECT 1"},
		readyIdle(),
	)

	rows, err := c.QueryWithParamTypes(t.Context(), "SELECT id, note FROM t WHERE id = $1", adhocParams())
	require.NoError(t, err)

	// One batch through the unnamed slot.
	require.Len(t, fc.sent, 1)
	assert.Equal(t, []byte{
		protocol.MsgParse,
		protocol.MsgBind,
		protocol.MsgDescribe,
		protocol.MsgExecute,
		protocol.MsgSync,
	}, sentTypes(t, fc.sent[0]))

	require.True(t, rows.Next(t.Context()))
	row := rows.Row()

	require.Len(t, row.Columns(), 2)
	assert.Equal(t, "id", row.Columns()[0].Name())
	assert.Equal(t, pgtypes.TypeInt4, row.Columns()[0].Type())

	id, ok := row.Columns()[0].ColumnID()
	require.True(t, ok)
	assert.Equal(t, int16(1), id)

	// An expression column has no table reference.
	_, ok = row.Columns()[1].ColumnID()
	assert.False(t, ok)
	_, ok = row.Columns()[1].TableOID()
	assert.False(t, ok)

	require.False(t, rows.Next(t.Context()))
	require.NoError(t, rows.Err())

	affected, ok := rows.RowsAffected()
	assert.True(t, ok)
	assert.Equal(t, uint64(1), affected)
}

func TestQueryWithParamTypesNoData(t *testing.T) {
	fc := &fakeConn{}
	c := newTestClient(fc)

	fc.script(
		wire.ParseComplete{},
		wire.BindComplete{},
		wire.ParameterDescription{TypeOIDs: []uint32{pgtypes.OIDInt4}},
		wire.NoData{},
		wire.CommandComplete{Tag: "DELETE 4"},
		readyIdle(),
	)

	rows, err := c.QueryWithParamTypes(t.Context(), "DELETE FROM t WHERE id = $1", adhocParams())
	require.NoError(t, err)

	require.False(t, rows.Next(t.Context()))
	require.NoError(t, rows.Err())

	affected, ok := rows.RowsAffected()
	assert.True(t, ok)
	assert.Equal(t, uint64(4), affected)
}

func TestQueryWithParamTypesOutOfOrder(t *testing.T) {
	fc := &fakeConn{}
	c := newTestClient(fc)

	// BindComplete before ParseComplete is a protocol violation.
	fc.script(wire.BindComplete{}, readyIdle())

	_, err := c.QueryWithParamTypes(t.Context(), "SELECT 1", nil)
	require.Error(t, err)

	var protoErr *pgerrors.ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, byte(protocol.MsgBindComplete), protoErr.MsgType)
}

func TestQueryWithParamTypesParseError(t *testing.T) {
	fc := &fakeConn{}
	c := newTestClient(fc)

	diag := &pgerrors.PgDiagnostic{
		MessageType: 'E',
		Severity:    "ERROR",
		Code:        "42601",
		Message:     "syntax error at or near \"SELEC\"",
	}
	fc.script(wire.ErrorResponse{Diag: diag})

	_, err := c.QueryWithParamTypes(t.Context(), "SELEC 1", nil)
	require.Error(t, err)

	var gotDiag *pgerrors.PgDiagnostic
	require.ErrorAs(t, err, &gotDiag)
	assert.Equal(t, "42601", gotDiag.Code)
}

func TestQueryWithParamTypesConversionFailure(t *testing.T) {
	fc := &fakeConn{}
	c := newTestClient(fc)

	params := []pgtypes.TypedValue{
		{Value: pgtypes.NewParam(struct{}{}), Type: pgtypes.TypeText},
	}
	_, err := c.QueryWithParamTypes(t.Context(), "SELECT $1", params)
	require.Error(t, err)

	var convErr *pgerrors.ParameterConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, 0, convErr.Index)
	assert.Empty(t, fc.sent)
}

func TestAdvanceAdhocParamTypesPinned(t *testing.T) {
	fc := &fakeConn{}
	c := newTestClient(fc)

	fc.script(
		wire.ParseComplete{},
		wire.BindComplete{},
		wire.ParameterDescription{TypeOIDs: []uint32{pgtypes.OIDInt4}},
		wire.NoData{},
		readyIdle(),
	)

	_, err := c.QueryWithParamTypes(t.Context(), "SELECT $1::int4", adhocParams())
	require.NoError(t, err)

	// The Parse message carries the declared parameter OID.
	msgs := fc.sent[0]
	require.Equal(t, byte(protocol.MsgParse), msgs[0])

	r := wire.NewMessageReader(msgs[5:])
	_, err = r.ReadString() // statement name
	require.NoError(t, err)
	_, err = r.ReadString() // query
	require.NoError(t, err)

	count, err := r.ReadInt16()
	require.NoError(t, err)
	require.Equal(t, int16(1), count)

	oid, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(pgtypes.OIDInt4), oid)
}
