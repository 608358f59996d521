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
	"fmt"
	"log/slog"

	"github.com/pgasync/pgasync/go/pgerrors"
	"github.com/pgasync/pgasync/go/pgtypes"
	"github.com/pgasync/pgasync/go/protocol"
	"github.com/pgasync/pgasync/go/wire"
)

// adhocState tracks the acknowledgement sequence of an ad-hoc query. The
// batch is Parse, Bind, Describe, Execute, Sync, so the server must answer
// with ParseComplete, BindComplete, ParameterDescription, then either
// RowDescription or NoData, in exactly that order. Anything else means the
// server and client have lost protocol sync.
type adhocState int

const (
	stateEmpty adhocState = iota
	stateParseCompleted
	stateBindCompleted
	stateParameterDescribed
	stateFinal
)

// QueryWithParamTypes executes a query string in one round trip through the
// unnamed statement slot, without a separate prepare step. Each parameter
// carries its own declared type, so the statement's types are known up
// front and the Parse can pin them. Rows are streamed the same way as for
// a prepared statement.
func (c *Client) QueryWithParamTypes(ctx context.Context, query string, params []pgtypes.TypedValue) (*RowStream, error) {
	ctx, span := startQuerySpan(ctx, query)
	defer span.End()

	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		slog.DebugContext(ctx, "executing ad-hoc query", "query", query)
	}

	types := make([]pgtypes.Type, len(params))
	values := make([]pgtypes.Param, len(params))
	oids := make([]uint32, len(params))
	for i, p := range params {
		types[i] = p.Type
		values[i] = p.Value
		oids[i] = p.Type.OID
	}

	buf, err := c.conn.WithBuffer(func(w *wire.MessageWriter) error {
		if err := wire.Parse(w, "", query, oids); err != nil {
			return &pgerrors.SerializationError{Err: err}
		}
		if err := encodeBind(w, "", "", types, values); err != nil {
			return err
		}
		if err := wire.Describe(w, protocol.TargetStatement, ""); err != nil {
			return &pgerrors.SerializationError{Err: err}
		}
		if err := wire.Execute(w, "", NoRowLimit); err != nil {
			return &pgerrors.SerializationError{Err: err}
		}
		if err := wire.Sync(w); err != nil {
			return &pgerrors.SerializationError{Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, failSpan(span, err, "failed to encode query")
	}

	replies, err := c.conn.Send(buf)
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("failed to send query: %w", err), "failed to send query")
	}

	state := stateEmpty
	var columns []Column
	for state != stateFinal {
		msg, err := replies.Next(ctx)
		if err != nil {
			return nil, failSpan(span, err, "query failed")
		}
		state, columns, err = c.advanceAdhoc(ctx, state, msg)
		if err != nil {
			return nil, failSpan(span, err, "query failed")
		}
	}

	return newRowStream(NewUnnamedStatement(columns), replies), nil
}

// advanceAdhoc applies one backend reply to the acknowledgement sequence.
// Columns are non-nil only on the transition into stateFinal via a
// RowDescription; a NoData final state has no columns.
func (c *Client) advanceAdhoc(ctx context.Context, state adhocState, msg wire.BackendMessage) (adhocState, []Column, error) {
	switch m := msg.(type) {
	case wire.ParseComplete:
		if state == stateEmpty {
			return stateParseCompleted, nil, nil
		}
	case wire.BindComplete:
		if state == stateParseCompleted {
			return stateBindCompleted, nil, nil
		}
	case wire.ParameterDescription:
		if state == stateBindCompleted {
			return stateParameterDescribed, nil, nil
		}
	case wire.RowDescription:
		if state == stateParameterDescribed {
			columns, err := c.resolveColumns(ctx, m.Fields)
			if err != nil {
				return state, nil, err
			}
			return stateFinal, columns, nil
		}
	case wire.NoData:
		if state == stateParameterDescribed {
			return stateFinal, nil, nil
		}
	case wire.ErrorResponse:
		return state, nil, m.Diag
	}
	return state, nil, &pgerrors.ProtocolError{MsgType: wire.TypeOf(msg)}
}

// resolveColumns turns row-description fields into column descriptors using
// the client's type resolver.
func (c *Client) resolveColumns(ctx context.Context, fields []wire.FieldDescription) ([]Column, error) {
	columns := make([]Column, len(fields))
	for i, f := range fields {
		typ, err := c.types.Resolve(ctx, f.TypeOID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve type of column %q: %w", f.Name, err)
		}
		columns[i] = NewColumn(f.Name, typ, f.ColumnID, f.TableOID)
	}
	return columns, nil
}
