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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgasync/pgasync/go/pgerrors"
	"github.com/pgasync/pgasync/go/pgtypes"
	"github.com/pgasync/pgasync/go/wire"
)

func TestRowStreamLazy(t *testing.T) {
	// Replies are consumed one Next at a time; an unbuffered queue blocks
	// the producer until the consumer pulls.
	q := NewReplyQueue(0)
	stmt := NewUnnamedStatement([]Column{})
	rows := newRowStream(stmt, q)

	delivered := make(chan struct{})
	go func() {
		defer close(delivered)
		q.Push(dataRow())
		q.Push(readyIdle())
		q.CloseSend()
	}()

	require.True(t, rows.Next(t.Context()))
	require.False(t, rows.Next(t.Context()))
	require.NoError(t, rows.Err())
	<-delivered
}

func TestRowStreamServerError(t *testing.T) {
	diag := &pgerrors.PgDiagnostic{
		MessageType: 'E',
		Severity:    "ERROR",
		Code:        "57014",
		Message:     "canceling statement due to user request",
	}

	q := NewReplyQueue(2)
	q.Push(dataRow())
	q.Push(wire.ErrorResponse{Diag: diag})
	q.CloseSend()

	rows := newRowStream(NewUnnamedStatement(nil), q)
	require.True(t, rows.Next(t.Context()))
	require.False(t, rows.Next(t.Context()))

	var gotDiag *pgerrors.PgDiagnostic
	require.ErrorAs(t, rows.Err(), &gotDiag)
	assert.Equal(t, "57014", gotDiag.Code)

	// The stream stays ended.
	assert.False(t, rows.Next(t.Context()))
	assert.Nil(t, rows.Row())
}

func TestRowStreamConnectionClosed(t *testing.T) {
	q := NewReplyQueue(1)
	q.Push(dataRow())
	q.CloseSend()

	rows := newRowStream(NewUnnamedStatement(nil), q)
	require.True(t, rows.Next(t.Context()))
	require.False(t, rows.Next(t.Context()))
	assert.ErrorIs(t, rows.Err(), ErrConnectionClosed)
}

func TestRowStreamContextCanceled(t *testing.T) {
	q := NewReplyQueue(0)
	rows := newRowStream(NewUnnamedStatement(nil), q)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	require.False(t, rows.Next(ctx))
	assert.ErrorIs(t, rows.Err(), context.Canceled)
	q.CloseSend()
}

func TestRowStreamColumnCountMismatch(t *testing.T) {
	columns := []Column{NewColumn("id", pgtypes.TypeInt4, 1, 16384)}
	q := NewReplyQueue(1)
	q.Push(dataRow([]byte("1"), []byte("extra")))
	q.CloseSend()

	rows := newRowStream(NewUnnamedStatement(columns), q)
	require.False(t, rows.Next(t.Context()))

	var parseErr *pgerrors.MessageParseError
	assert.ErrorAs(t, rows.Err(), &parseErr)
}

func TestRowStreamCloseReleasesStatement(t *testing.T) {
	fc := &fakeConn{}
	c := newTestClient(fc)
	stmt := testStatement(c)

	q := NewReplyQueue(0)
	rows := newRowStream(stmt, q)
	q.CloseSend()

	// The stream's reference keeps the release from closing the statement.
	stmt.Release()
	assert.Empty(t, fc.sent)

	rows.Close()
	require.Len(t, fc.sent, 1)

	// A second close does not release again.
	rows.Close()
	assert.Len(t, fc.sent, 1)
}
