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

// Package protocol defines PostgreSQL wire protocol constants and types.
package protocol

// Message type constants for frontend (client) messages
const (
	MsgBind      = 'B' // Bind
	MsgClose     = 'C' // Close
	MsgDescribe  = 'D' // Describe
	MsgExecute   = 'E' // Execute
	MsgFlush     = 'H' // Flush
	MsgParse     = 'P' // Parse
	MsgQuery     = 'Q' // Query (simple query)
	MsgSync      = 'S' // Sync
	MsgTerminate = 'X' // Terminate
)

// Message type constants for backend (server) messages
const (
	MsgParseComplete        = '1' // Parse complete
	MsgBindComplete         = '2' // Bind complete
	MsgCloseComplete        = '3' // Close complete
	MsgNotificationResponse = 'A' // Notification response
	MsgCommandComplete      = 'C' // Command complete
	MsgDataRow              = 'D' // Data row
	MsgErrorResponse        = 'E' // Error response
	MsgEmptyQueryResponse   = 'I' // Empty query response
	MsgNoticeResponse       = 'N' // Notice response
	MsgParameterStatus      = 'S' // Parameter status
	MsgRowDescription       = 'T' // Row description
	MsgReadyForQuery        = 'Z' // Ready for query
	MsgNoData               = 'n' // No data
	MsgPortalSuspended      = 's' // Portal suspended
	MsgParameterDescription = 't' // Parameter description
)

// Target kinds for Describe and Close messages
const (
	TargetStatement = 'S' // Prepared statement
	TargetPortal    = 'P' // Portal
)

// Error and Notice message field codes
const (
	FieldSeverity         = 'S' // Severity (always present)
	FieldSeverityV        = 'V' // Severity (non-localized, always present)
	FieldCode             = 'C' // SQLSTATE code (always present)
	FieldMessage          = 'M' // Primary message (always present)
	FieldDetail           = 'D' // Detail message
	FieldHint             = 'H' // Hint message
	FieldPosition         = 'P' // Position in query string
	FieldInternalPosition = 'p' // Position in internal query
	FieldInternalQuery    = 'q' // Internal query
	FieldWhere            = 'W' // Context (where the error occurred)
	FieldSchema           = 's' // Schema name
	FieldTable            = 't' // Table name
	FieldColumn           = 'c' // Column name
	FieldDataType         = 'd' // Data type name
	FieldConstraint       = 'n' // Constraint name
	FieldFile             = 'F' // Source file name
	FieldLine             = 'L' // Source line number
	FieldRoutine          = 'R' // Source routine name
)

// TransactionStatus represents the transaction state sent in ReadyForQuery messages.
type TransactionStatus byte

// Transaction status indicators for ReadyForQuery
const (
	TxnStatusIdle    TransactionStatus = 'I' // Idle (not in transaction)
	TxnStatusInBlock TransactionStatus = 'T' // In transaction block
	TxnStatusFailed  TransactionStatus = 'E' // In failed transaction block
)

// Format codes for data types
const (
	FormatText   = 0 // Text format
	FormatBinary = 1 // Binary format
)

// Packet length constants
const (
	PacketHeaderSize = 4 // Size of packet length field (does not include message type byte)
)
