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
	"log/slog"
	"sync/atomic"

	"github.com/pgasync/pgasync/go/pgtypes"
	"github.com/pgasync/pgasync/go/protocol"
	"github.com/pgasync/pgasync/go/wire"
)

// Column describes one result column of a prepared statement. Columns are
// immutable after construction.
type Column struct {
	name     string
	typ      pgtypes.Type
	columnID int16
	tableOID uint32
}

// NewColumn creates a column descriptor from a row-description field. A zero
// columnID or tableOID means the column is not a simple table reference, and
// the corresponding accessor reports absence.
func NewColumn(name string, typ pgtypes.Type, columnID int16, tableOID uint32) Column {
	return Column{
		name:     name,
		typ:      typ,
		columnID: columnID,
		tableOID: tableOID,
	}
}

// Name returns the column name.
func (c Column) Name() string { return c.name }

// Type returns the column's type descriptor.
func (c Column) Type() pgtypes.Type { return c.typ }

// ColumnID returns the attribute number of the underlying table column, if
// the column directly references one.
func (c Column) ColumnID() (int16, bool) {
	if c.columnID == 0 {
		return 0, false
	}
	return c.columnID, true
}

// TableOID returns the OID of the underlying table, if the column directly
// references one.
func (c Column) TableOID() (uint32, bool) {
	if c.tableOID == 0 {
		return 0, false
	}
	return c.tableOID, true
}

// Statement is a server-side prepared statement. The last Release closes the
// statement on the server; a statement whose connection is already gone is
// released without any wire traffic.
type Statement struct {
	conn    *ConnRef
	name    string
	params  []pgtypes.Type
	columns []Column
	refs    atomic.Int32
}

// NewStatement creates a prepared statement handle with one reference held
// by the caller. The prepare layer fills params and columns from the
// server's statement description.
func NewStatement(conn *ConnRef, name string, params []pgtypes.Type, columns []Column) *Statement {
	s := &Statement{
		conn:    conn,
		name:    name,
		params:  params,
		columns: columns,
	}
	s.refs.Store(1)
	return s
}

// NewUnnamedStatement creates a throwaway handle for the unnamed statement
// slot. The slot is reclaimed by the server on the next Parse, so releasing
// the handle sends nothing.
func NewUnnamedStatement(columns []Column) *Statement {
	s := &Statement{columns: columns}
	s.refs.Store(1)
	return s
}

// Name returns the statement's server-side name. Empty for the unnamed slot.
func (s *Statement) Name() string { return s.name }

// Params returns the statement's parameter types. The slice is shared and
// must not be modified.
func (s *Statement) Params() []pgtypes.Type { return s.params }

// Columns returns the statement's result columns. The slice is shared and
// must not be modified.
func (s *Statement) Columns() []Column { return s.columns }

// Clone takes an additional reference and returns the same handle. Each
// clone must be matched by a Release.
func (s *Statement) Clone() *Statement {
	s.retain()
	return s
}

// retain takes an additional reference for an in-flight consumer, keeping
// the server-side statement alive until the matching Release.
func (s *Statement) retain() {
	s.refs.Add(1)
}

// Release drops one reference. The last release sends Close and Sync for
// the statement, fire and forget: the acknowledgement is consumed by the
// connection layer and errors only logged, since nothing can act on a
// failed close of a statement nobody references anymore.
func (s *Statement) Release() {
	if s.refs.Add(-1) != 0 {
		return
	}
	s.close()
}

func (s *Statement) close() {
	if s.name == "" || s.conn == nil {
		return
	}
	conn := s.conn.Resolve()
	if conn == nil {
		// Connection already closed; the server dropped the statement
		// with it.
		return
	}
	buf, err := conn.WithBuffer(func(w *wire.MessageWriter) error {
		if err := wire.Close(w, protocol.TargetStatement, s.name); err != nil {
			return err
		}
		return wire.Sync(w)
	})
	if err != nil {
		slog.Warn("failed to encode statement close", "statement", s.name, "error", err)
		return
	}
	if _, err := conn.Send(buf); err != nil {
		slog.Warn("failed to send statement close", "statement", s.name, "error", err)
	}
}
