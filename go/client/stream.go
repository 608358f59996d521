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

	"github.com/pgasync/pgasync/go/pgerrors"
	"github.com/pgasync/pgasync/go/wire"
)

// RowStream is a pull-based stream of result rows. Rows are decoded lazily,
// one per Next call; nothing is read from the reply channel between calls.
// The stream holds a reference on its statement until it ends or is closed,
// so the server-side statement outlives every row it produced.
//
// A stream is not safe for concurrent use.
type RowStream struct {
	stmt    *Statement
	replies Replies

	row          *Row
	err          error
	rowsAffected uint64
	tagSeen      bool
	done         bool
}

// newRowStream takes a statement reference for the stream's lifetime.
func newRowStream(stmt *Statement, replies Replies) *RowStream {
	stmt.retain()
	return &RowStream{stmt: stmt, replies: replies}
}

// Next advances to the next row, returning false when the stream ends. After
// a false return, Err distinguishes completion from failure. Non-row replies
// between data rows are absorbed: the completion tag is recorded, and a
// suspended portal keeps pulling until the server's closing ReadyForQuery.
func (s *RowStream) Next(ctx context.Context) bool {
	if s.done {
		return false
	}
	for {
		msg, err := s.replies.Next(ctx)
		if err != nil {
			s.finish(err)
			return false
		}
		switch m := msg.(type) {
		case wire.DataRow:
			row, err := buildRow(s.stmt, m.Values)
			if err != nil {
				s.finish(err)
				return false
			}
			s.row = row
			return true
		case wire.CommandComplete:
			s.rowsAffected = extractRowsAffected(m.Tag)
			s.tagSeen = true
		case wire.EmptyQueryResponse:
			// Nothing was executed, so there is no completion tag.
		case wire.PortalSuspended:
			// Row limit reached. No completion tag for this portal.
		case wire.ReadyForQuery:
			s.finish(nil)
			return false
		case wire.ErrorResponse:
			s.finish(m.Diag)
			return false
		default:
			s.finish(&pgerrors.ProtocolError{MsgType: wire.TypeOf(msg)})
			return false
		}
	}
}

// Row returns the row produced by the last successful Next. Valid until the
// next call to Next.
func (s *RowStream) Row() *Row { return s.row }

// Err returns the error that ended the stream, or nil after a clean end.
func (s *RowStream) Err() error { return s.err }

// RowsAffected returns the row count from the command's completion tag. It
// reports false until the tag arrives, and always for a portal execution
// that was suspended by its row limit.
func (s *RowStream) RowsAffected() (uint64, bool) {
	return s.rowsAffected, s.tagSeen
}

// Close releases the stream's statement reference. Idempotent, and a no-op
// on a stream that already ended. A closed stream stops without draining
// the remaining replies; the connection layer discards them when the reply
// channel is dropped.
func (s *RowStream) Close() {
	s.finish(s.err)
}

func (s *RowStream) finish(err error) {
	if s.done {
		return
	}
	s.done = true
	s.err = err
	s.row = nil
	s.stmt.Release()
}
