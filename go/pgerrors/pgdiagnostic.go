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

// Package pgerrors defines the error types surfaced by the query engine:
// structured PostgreSQL diagnostics and the client-side failure taxonomy.
package pgerrors

import (
	"errors"
	"fmt"
	"strings"
)

// PgDiagnostic represents a PostgreSQL diagnostic message (error or notice).
// PostgreSQL uses the same wire format for both ErrorResponse ('E') and
// NoticeResponse ('N'), differentiated by the MessageType field.
type PgDiagnostic struct {
	// MessageType is the PostgreSQL protocol message type byte.
	// 'E' (0x45 = 69) for ErrorResponse, 'N' (0x4E = 78) for NoticeResponse.
	MessageType      byte
	Severity         string
	Code             string
	Message          string
	Detail           string
	Hint             string
	Position         int32
	InternalPosition int32
	InternalQuery    string
	Where            string
	Schema           string
	Table            string
	Column           string
	DataType         string
	Constraint       string
}

// IsError returns true if this diagnostic represents an error (MessageType == 'E').
func (d *PgDiagnostic) IsError() bool {
	return d.MessageType == 'E'
}

// IsNotice returns true if this diagnostic represents a notice (MessageType == 'N').
func (d *PgDiagnostic) IsNotice() bool {
	return d.MessageType == 'N'
}

// SQLSTATE returns the PostgreSQL SQLSTATE error code.
// This is an alias for the Code field, provided for clarity.
//
// SQLSTATE codes are 5-character strings where:
//   - First 2 characters = class (e.g., "42" = syntax/access error)
//   - Last 3 characters = specific condition
//
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
func (d *PgDiagnostic) SQLSTATE() string {
	return d.Code
}

// SQLSTATEClass returns the first 2 characters of the SQLSTATE code,
// which identifies the error class.
//
// Returns empty string if Code is empty or less than 2 characters.
func (d *PgDiagnostic) SQLSTATEClass() string {
	if len(d.Code) < 2 {
		return ""
	}
	return d.Code[:2]
}

// IsClass returns true if the SQLSTATE code belongs to the specified class.
// The class is the first 2 characters of the SQLSTATE code.
func (d *PgDiagnostic) IsClass(class string) bool {
	return d.SQLSTATEClass() == class
}

// IsFatal returns true if the severity indicates a fatal condition.
// Fatal conditions include FATAL and PANIC severities.
//
// Per PostgreSQL protocol:
//   - FATAL: The session is terminated
//   - PANIC: All database sessions are terminated (server restart required)
//
// ERROR severity is not considered fatal - the session can continue.
func (d *PgDiagnostic) IsFatal() bool {
	return d.Severity == "FATAL" || d.Severity == "PANIC"
}

// Error implements the error interface.
// Returns PostgreSQL-native format: "SEVERITY: message".
// Use [PgDiagnostic.FullError] to include the SQLSTATE code for debugging.
func (d *PgDiagnostic) Error() string {
	if d == nil {
		return "ERROR: unknown error"
	}
	return d.Severity + ": " + d.Message
}

// FullError returns the error with SQLSTATE code for debugging purposes.
// Format: "SEVERITY: message (SQLSTATE code)"
func (d *PgDiagnostic) FullError() string {
	if d == nil {
		return "ERROR: unknown error (SQLSTATE 00000)"
	}
	return d.Severity + ": " + d.Message + " (SQLSTATE " + d.Code + ")"
}

// Validate checks that required PostgreSQL diagnostic fields are present.
// This is a lenient validation - it returns an error describing what's missing
// but callers should typically log a warning rather than fail.
//
// Required fields per PostgreSQL protocol:
//   - MessageType must be 'E' (ErrorResponse) or 'N' (NoticeResponse)
//   - Severity must not be empty
//   - Code (SQLSTATE) must not be empty
//   - Message must not be empty
func (d *PgDiagnostic) Validate() error {
	if d == nil {
		return errors.New("diagnostic is nil")
	}

	var issues []string

	if d.MessageType != 'E' && d.MessageType != 'N' {
		if d.MessageType == 0 {
			issues = append(issues, "MessageType is unset (0x00): must be 'E' or 'N'")
		} else {
			issues = append(issues, fmt.Sprintf("invalid MessageType '%c' (0x%02x): must be 'E' or 'N'", d.MessageType, d.MessageType))
		}
	}

	if d.Severity == "" {
		issues = append(issues, "Severity is empty")
	}

	if d.Code == "" {
		issues = append(issues, "Code (SQLSTATE) is empty")
	}

	if d.Message == "" {
		issues = append(issues, "Message is empty")
	}

	if len(issues) > 0 {
		return fmt.Errorf("invalid PgDiagnostic: %s", strings.Join(issues, "; "))
	}

	return nil
}
