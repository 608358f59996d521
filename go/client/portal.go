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

// Portal is a server-side cursor bound from a prepared statement. Named
// portals survive across Execute calls inside a transaction, which lets a
// result set be fetched in row-limited chunks. The portal takes a statement
// reference for its lifetime; Release drops it.
type Portal struct {
	name string
	stmt *Statement
}

// NewPortal creates a portal handle over an already-bound server-side
// portal. The bind layer creates these after the server acknowledges Bind.
func NewPortal(name string, stmt *Statement) *Portal {
	stmt.retain()
	return &Portal{name: name, stmt: stmt}
}

// Name returns the portal's server-side name.
func (p *Portal) Name() string { return p.name }

// Statement returns the statement the portal was bound from.
func (p *Portal) Statement() *Statement { return p.stmt }

// Release drops the portal's statement reference. The server-side portal
// itself is closed by transaction end or by reuse of its name.
func (p *Portal) Release() {
	p.stmt.Release()
}
