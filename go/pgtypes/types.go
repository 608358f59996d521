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

// Package pgtypes describes PostgreSQL data types and parameter value
// encoding for the extended query protocol.
package pgtypes

import "context"

// Well-known type OIDs from pg_type.
const (
	OIDBool        = 16
	OIDBytea       = 17
	OIDInt8        = 20
	OIDInt2        = 21
	OIDInt4        = 23
	OIDText        = 25
	OIDOid         = 26
	OIDJSON        = 114
	OIDFloat4      = 700
	OIDFloat8      = 701
	OIDUnknown     = 705
	OIDVarchar     = 1043
	OIDDate        = 1082
	OIDTimestamp   = 1114
	OIDTimestamptz = 1184
	OIDNumeric     = 1700
	OIDUUID        = 2950
	OIDJSONB       = 3802
)

// Type is a resolved PostgreSQL type descriptor.
type Type struct {
	// OID is the type's object identifier in pg_type.
	OID uint32

	// Name is the type's name, e.g. "int4".
	Name string
}

func (t Type) String() string {
	return t.Name
}

// Builtin type descriptors for common OIDs.
var (
	TypeBool        = Type{OID: OIDBool, Name: "bool"}
	TypeBytea       = Type{OID: OIDBytea, Name: "bytea"}
	TypeInt8        = Type{OID: OIDInt8, Name: "int8"}
	TypeInt2        = Type{OID: OIDInt2, Name: "int2"}
	TypeInt4        = Type{OID: OIDInt4, Name: "int4"}
	TypeText        = Type{OID: OIDText, Name: "text"}
	TypeOid         = Type{OID: OIDOid, Name: "oid"}
	TypeJSON        = Type{OID: OIDJSON, Name: "json"}
	TypeFloat4      = Type{OID: OIDFloat4, Name: "float4"}
	TypeFloat8      = Type{OID: OIDFloat8, Name: "float8"}
	TypeUnknown     = Type{OID: OIDUnknown, Name: "unknown"}
	TypeVarchar     = Type{OID: OIDVarchar, Name: "varchar"}
	TypeDate        = Type{OID: OIDDate, Name: "date"}
	TypeTimestamp   = Type{OID: OIDTimestamp, Name: "timestamp"}
	TypeTimestamptz = Type{OID: OIDTimestamptz, Name: "timestamptz"}
	TypeNumeric     = Type{OID: OIDNumeric, Name: "numeric"}
	TypeUUID        = Type{OID: OIDUUID, Name: "uuid"}
	TypeJSONB       = Type{OID: OIDJSONB, Name: "jsonb"}
)

var builtins = map[uint32]Type{
	OIDBool:        TypeBool,
	OIDBytea:       TypeBytea,
	OIDInt8:        TypeInt8,
	OIDInt2:        TypeInt2,
	OIDInt4:        TypeInt4,
	OIDText:        TypeText,
	OIDOid:         TypeOid,
	OIDJSON:        TypeJSON,
	OIDFloat4:      TypeFloat4,
	OIDFloat8:      TypeFloat8,
	OIDUnknown:     TypeUnknown,
	OIDVarchar:     TypeVarchar,
	OIDDate:        TypeDate,
	OIDTimestamp:   TypeTimestamp,
	OIDTimestamptz: TypeTimestamptz,
	OIDNumeric:     TypeNumeric,
	OIDUUID:        TypeUUID,
	OIDJSONB:       TypeJSONB,
}

// TypeForOID returns the builtin type descriptor for a well-known OID.
func TypeForOID(oid uint32) (Type, bool) {
	t, ok := builtins[oid]
	return t, ok
}

// TypeResolver maps a wire type OID to a full type descriptor. Resolution
// for non-builtin types may require a catalog lookup, so it takes a context.
type TypeResolver interface {
	Resolve(ctx context.Context, oid uint32) (Type, error)
}

// MapResolver resolves types from a static map, falling back to the
// builtin table. OIDs found in neither are reported as the "unknown"
// pseudo-type with the original OID preserved, so decoding of exotic types
// degrades rather than failing the query.
type MapResolver map[uint32]Type

// Resolve implements TypeResolver.
func (m MapResolver) Resolve(_ context.Context, oid uint32) (Type, error) {
	if t, ok := m[oid]; ok {
		return t, nil
	}
	if t, ok := builtins[oid]; ok {
		return t, nil
	}
	return Type{OID: oid, Name: "unknown"}, nil
}

// BuiltinResolver returns a resolver over the builtin type table only.
func BuiltinResolver() TypeResolver {
	return MapResolver(nil)
}
