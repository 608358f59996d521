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
	"fmt"

	"github.com/pgasync/pgasync/go/pgerrors"
	"github.com/pgasync/pgasync/go/protocol"
	"github.com/pgasync/pgasync/go/sqltypes"
)

// Row is one result row, paired with the column descriptors of the
// statement that produced it.
type Row struct {
	columns []Column
	values  []sqltypes.Value
}

// buildRow pairs a data row's raw values with the statement's columns. A
// value count that disagrees with the column count means the server and the
// statement description have diverged.
func buildRow(stmt *Statement, raw [][]byte) (*Row, error) {
	columns := stmt.Columns()
	if len(raw) != len(columns) {
		return nil, &pgerrors.MessageParseError{
			MsgType: protocol.MsgDataRow,
			Err:     fmt.Errorf("row has %d values but statement describes %d columns", len(raw), len(columns)),
		}
	}
	return &Row{
		columns: columns,
		values:  sqltypes.MakeValues(raw),
	}, nil
}

// Columns returns the row's column descriptors.
func (r *Row) Columns() []Column { return r.columns }

// Len returns the number of values in the row.
func (r *Row) Len() int { return len(r.values) }

// Value returns the raw value at index i. NULL is the nil Value.
func (r *Row) Value(i int) sqltypes.Value { return r.values[i] }

// Values returns all raw values in column order. The slice is shared and
// must not be modified.
func (r *Row) Values() []sqltypes.Value { return r.values }
