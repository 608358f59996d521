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
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pgasync/pgasync/go/pgerrors"
	"github.com/pgasync/pgasync/go/pgtypes"
	"github.com/pgasync/pgasync/go/wire"
)

// NoRowLimit requests all rows from an Execute.
const NoRowLimit int32 = 0

// Query executes a prepared statement and returns a stream over its rows.
// Args are converted positionally against the statement's parameter types;
// a count mismatch or conversion failure is reported before anything is
// sent. Query returns once the server acknowledges the bind, so a bind
// failure (for example a type mismatch) surfaces here rather than on the
// stream.
func (c *Client) Query(ctx context.Context, stmt *Statement, args ...any) (*RowStream, error) {
	ctx, span := startQuerySpan(ctx, "")
	defer span.End()

	replies, err := c.sendBound(ctx, stmt, args)
	if err != nil {
		return nil, failSpan(span, err, "query failed")
	}
	return newRowStream(stmt, replies), nil
}

// Execute runs a prepared statement for its side effects and returns the
// number of rows affected. Any rows the statement produces are discarded.
func (c *Client) Execute(ctx context.Context, stmt *Statement, args ...any) (uint64, error) {
	ctx, span := startQuerySpan(ctx, "")
	defer span.End()

	replies, err := c.sendBound(ctx, stmt, args)
	if err != nil {
		return 0, failSpan(span, err, "execute failed")
	}

	var affected uint64
	for {
		msg, err := replies.Next(ctx)
		if err != nil {
			return 0, failSpan(span, err, "execute failed")
		}
		switch m := msg.(type) {
		case wire.DataRow:
			// Discarded; only the completion tag matters here.
		case wire.CommandComplete:
			affected = extractRowsAffected(m.Tag)
		case wire.EmptyQueryResponse:
			affected = 0
		case wire.ReadyForQuery:
			return affected, nil
		case wire.ErrorResponse:
			return 0, failSpan(span, m.Diag, "execute failed")
		default:
			return 0, failSpan(span, &pgerrors.ProtocolError{MsgType: wire.TypeOf(msg)}, "execute failed")
		}
	}
}

// sendBound encodes Bind, Execute and Sync for a prepared statement, sends
// the batch, and consumes the bind acknowledgement. Any other first reply
// (including a server error) is surfaced here rather than deferred to the
// reply consumer, so binding failures are reported at call time.
func (c *Client) sendBound(ctx context.Context, stmt *Statement, args []any) (Replies, error) {
	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		slog.DebugContext(ctx, "executing statement",
			"statement", stmt.Name(),
			"params", fmt.Sprintf("%v", args),
		)
	}

	params := pgtypes.NewParams(args)
	buf, err := c.conn.WithBuffer(func(w *wire.MessageWriter) error {
		if err := encodeBind(w, "", stmt.Name(), stmt.Params(), params); err != nil {
			return err
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
		return nil, err
	}

	replies, err := c.conn.Send(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to send query: %w", err)
	}

	if err := awaitBindComplete(ctx, replies); err != nil {
		return nil, err
	}
	return replies, nil
}

// QueryPortal executes an already-bound portal, fetching at most maxRows
// rows (NoRowLimit for all of them). Within a transaction the same portal
// can be executed repeatedly to page through a large result set; a stream
// that was cut short by the row limit ends without a rows-affected count.
func (c *Client) QueryPortal(ctx context.Context, portal *Portal, maxRows int32) (*RowStream, error) {
	ctx, span := startQuerySpan(ctx, "")
	defer span.End()

	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		slog.DebugContext(ctx, "executing portal",
			"portal", portal.Name(),
			"max_rows", maxRows,
		)
	}

	buf, err := c.conn.WithBuffer(func(w *wire.MessageWriter) error {
		if err := wire.Execute(w, portal.Name(), maxRows); err != nil {
			return &pgerrors.SerializationError{Err: err}
		}
		if err := wire.Sync(w); err != nil {
			return &pgerrors.SerializationError{Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, failSpan(span, err, "failed to encode execute")
	}

	replies, err := c.conn.Send(buf)
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("failed to send execute: %w", err), "failed to send execute")
	}
	return newRowStream(portal.Statement(), replies), nil
}

// awaitBindComplete consumes the single reply acknowledging a Bind.
func awaitBindComplete(ctx context.Context, replies Replies) error {
	msg, err := replies.Next(ctx)
	if err != nil {
		return err
	}
	switch m := msg.(type) {
	case wire.BindComplete:
		return nil
	case wire.ErrorResponse:
		return m.Diag
	default:
		return &pgerrors.ProtocolError{MsgType: wire.TypeOf(msg)}
	}
}

// extractRowsAffected parses the row count out of a command completion tag,
// the token after the last space ("UPDATE 5", "INSERT 0 5", "SELECT 2").
// Tags without a count ("CREATE TABLE", "BEGIN") report zero.
func extractRowsAffected(tag string) uint64 {
	token := tag
	if i := strings.LastIndexByte(tag, ' '); i >= 0 {
		token = tag[i+1:]
	}
	n, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func failSpan(span trace.Span, err error, status string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, status)
	return err
}
