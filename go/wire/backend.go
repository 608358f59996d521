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

package wire

import (
	"fmt"
	"strconv"

	"github.com/pgasync/pgasync/go/pgerrors"
	"github.com/pgasync/pgasync/go/protocol"
)

// BackendMessage is a typed message received from the server.
type BackendMessage interface {
	backend()
}

// ParseComplete acknowledges a Parse message.
type ParseComplete struct{}

// BindComplete acknowledges a Bind message.
type BindComplete struct{}

// CloseComplete acknowledges a Close message.
type CloseComplete struct{}

// ParameterDescription reports the parameter types of a described statement.
type ParameterDescription struct {
	TypeOIDs []uint32
}

// FieldDescription describes one column of a result set.
type FieldDescription struct {
	Name         string
	TableOID     uint32
	ColumnID     int16
	TypeOID      uint32
	TypeSize     int16
	TypeModifier int32
	Format       int16
}

// RowDescription reports the result columns of a described statement or portal.
type RowDescription struct {
	Fields []FieldDescription
}

// NoData reports that a described statement or portal returns no rows.
type NoData struct{}

// DataRow carries one row's raw column values. A nil entry means NULL;
// an empty non-nil entry means an empty value.
type DataRow struct {
	Values [][]byte
}

// CommandComplete reports the completion tag of a finished command.
type CommandComplete struct {
	Tag string
}

// EmptyQueryResponse reports that the query string was empty.
type EmptyQueryResponse struct{}

// PortalSuspended reports that a row-limited Execute stopped before the
// portal was exhausted.
type PortalSuspended struct{}

// ReadyForQuery reports that the server finished the current request cycle.
type ReadyForQuery struct {
	TxnStatus protocol.TransactionStatus
}

// ErrorResponse carries a server error diagnostic.
type ErrorResponse struct {
	Diag *pgerrors.PgDiagnostic
}

// NoticeResponse carries a server notice diagnostic. The connection layer
// delivers notices to its own handler; they never appear on a request's
// reply channel.
type NoticeResponse struct {
	Diag *pgerrors.PgDiagnostic
}

// TypeOf returns the wire type byte of a parsed backend message.
func TypeOf(m BackendMessage) byte {
	switch m.(type) {
	case ParseComplete:
		return protocol.MsgParseComplete
	case BindComplete:
		return protocol.MsgBindComplete
	case CloseComplete:
		return protocol.MsgCloseComplete
	case ParameterDescription:
		return protocol.MsgParameterDescription
	case RowDescription:
		return protocol.MsgRowDescription
	case NoData:
		return protocol.MsgNoData
	case DataRow:
		return protocol.MsgDataRow
	case CommandComplete:
		return protocol.MsgCommandComplete
	case EmptyQueryResponse:
		return protocol.MsgEmptyQueryResponse
	case PortalSuspended:
		return protocol.MsgPortalSuspended
	case ReadyForQuery:
		return protocol.MsgReadyForQuery
	case ErrorResponse:
		return protocol.MsgErrorResponse
	case NoticeResponse:
		return protocol.MsgNoticeResponse
	}
	return 0
}

func (ParseComplete) backend()        {}
func (BindComplete) backend()         {}
func (CloseComplete) backend()        {}
func (ParameterDescription) backend() {}
func (RowDescription) backend()       {}
func (NoData) backend()               {}
func (DataRow) backend()              {}
func (CommandComplete) backend()      {}
func (EmptyQueryResponse) backend()   {}
func (PortalSuspended) backend()      {}
func (ReadyForQuery) backend()        {}
func (ErrorResponse) backend()        {}
func (NoticeResponse) backend()       {}

// ParseBackend parses a framed backend message body into its typed form.
// Malformed fields are reported as a MessageParseError; an unknown message
// type is a ProtocolError.
func ParseBackend(msgType byte, body []byte) (BackendMessage, error) {
	switch msgType {
	case protocol.MsgParseComplete:
		return ParseComplete{}, nil

	case protocol.MsgBindComplete:
		return BindComplete{}, nil

	case protocol.MsgCloseComplete:
		return CloseComplete{}, nil

	case protocol.MsgParameterDescription:
		oids, err := parseParameterDescription(body)
		if err != nil {
			return nil, &pgerrors.MessageParseError{MsgType: msgType, Err: err}
		}
		return ParameterDescription{TypeOIDs: oids}, nil

	case protocol.MsgRowDescription:
		fields, err := parseRowDescription(body)
		if err != nil {
			return nil, &pgerrors.MessageParseError{MsgType: msgType, Err: err}
		}
		return RowDescription{Fields: fields}, nil

	case protocol.MsgNoData:
		return NoData{}, nil

	case protocol.MsgDataRow:
		values, err := parseDataRow(body)
		if err != nil {
			return nil, &pgerrors.MessageParseError{MsgType: msgType, Err: err}
		}
		return DataRow{Values: values}, nil

	case protocol.MsgCommandComplete:
		tag, err := parseCommandComplete(body)
		if err != nil {
			return nil, &pgerrors.MessageParseError{MsgType: msgType, Err: err}
		}
		return CommandComplete{Tag: tag}, nil

	case protocol.MsgEmptyQueryResponse:
		return EmptyQueryResponse{}, nil

	case protocol.MsgPortalSuspended:
		return PortalSuspended{}, nil

	case protocol.MsgReadyForQuery:
		if len(body) < 1 {
			return nil, &pgerrors.MessageParseError{MsgType: msgType, Err: fmt.Errorf("empty ReadyForQuery body")}
		}
		return ReadyForQuery{TxnStatus: protocol.TransactionStatus(body[0])}, nil

	case protocol.MsgErrorResponse:
		return ErrorResponse{Diag: ParseDiagnostic(msgType, body)}, nil

	case protocol.MsgNoticeResponse:
		return NoticeResponse{Diag: ParseDiagnostic(msgType, body)}, nil

	default:
		return nil, pgerrors.Unexpected(msgType)
	}
}

// parseRowDescription parses a RowDescription message body.
func parseRowDescription(body []byte) ([]FieldDescription, error) {
	reader := NewMessageReader(body)

	fieldCount, err := reader.ReadInt16()
	if err != nil {
		return nil, fmt.Errorf("failed to read field count: %w", err)
	}

	fields := make([]FieldDescription, fieldCount)

	for i := range fieldCount {
		field := FieldDescription{}

		field.Name, err = reader.ReadString()
		if err != nil {
			return nil, fmt.Errorf("failed to read field name: %w", err)
		}

		field.TableOID, err = reader.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("failed to read table OID: %w", err)
		}

		field.ColumnID, err = reader.ReadInt16()
		if err != nil {
			return nil, fmt.Errorf("failed to read attribute number: %w", err)
		}

		field.TypeOID, err = reader.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("failed to read data type OID: %w", err)
		}

		field.TypeSize, err = reader.ReadInt16()
		if err != nil {
			return nil, fmt.Errorf("failed to read data type size: %w", err)
		}

		field.TypeModifier, err = reader.ReadInt32()
		if err != nil {
			return nil, fmt.Errorf("failed to read type modifier: %w", err)
		}

		field.Format, err = reader.ReadInt16()
		if err != nil {
			return nil, fmt.Errorf("failed to read format code: %w", err)
		}

		fields[i] = field
	}

	return fields, nil
}

// parseDataRow parses a DataRow message body.
// Returns raw values where nil represents NULL.
func parseDataRow(body []byte) ([][]byte, error) {
	reader := NewMessageReader(body)

	columnCount, err := reader.ReadInt16()
	if err != nil {
		return nil, fmt.Errorf("failed to read column count: %w", err)
	}

	values := make([][]byte, columnCount)
	for i := range columnCount {
		value, err := reader.ReadByteString()
		if err != nil {
			return nil, fmt.Errorf("failed to read column value: %w", err)
		}
		// nil for NULL, []byte{} for empty value - preserved correctly
		values[i] = value
	}

	return values, nil
}

// parseCommandComplete parses a CommandComplete message body.
func parseCommandComplete(body []byte) (string, error) {
	reader := NewMessageReader(body)
	tag, err := reader.ReadString()
	if err != nil {
		return "", fmt.Errorf("failed to read command tag: %w", err)
	}
	return tag, nil
}

// parseParameterDescription parses a ParameterDescription message body.
func parseParameterDescription(body []byte) ([]uint32, error) {
	reader := NewMessageReader(body)

	paramCount, err := reader.ReadInt16()
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter count: %w", err)
	}

	oids := make([]uint32, paramCount)
	for i := range paramCount {
		oids[i], err = reader.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("failed to read parameter OID: %w", err)
		}
	}

	return oids, nil
}

// ParseDiagnostic parses all PostgreSQL diagnostic fields from the wire
// format. PostgreSQL uses the same field format for ErrorResponse ('E') and
// NoticeResponse ('N') messages, so this is shared between the two.
//
// If the parsed diagnostic fails validation (missing required fields), a
// warning is logged but the diagnostic is still returned. This allows
// lenient handling of malformed messages.
func ParseDiagnostic(msgType byte, body []byte) *pgerrors.PgDiagnostic {
	reader := NewMessageReader(body)

	diag := &pgerrors.PgDiagnostic{
		MessageType: msgType,
	}

	for reader.Remaining() > 0 {
		fieldType, err := reader.ReadByte()
		if err != nil {
			break
		}
		if fieldType == 0 {
			break // End of fields.
		}

		value, err := reader.ReadString()
		if err != nil {
			break
		}

		switch fieldType {
		case protocol.FieldSeverity:
			diag.Severity = value
		case protocol.FieldSeverityV:
			// FieldSeverityV ('V') is the non-localized severity.
			// Only use it if FieldSeverity ('S') wasn't already set.
			if diag.Severity == "" {
				diag.Severity = value
			}
		case protocol.FieldCode:
			diag.Code = value
		case protocol.FieldMessage:
			diag.Message = value
		case protocol.FieldDetail:
			diag.Detail = value
		case protocol.FieldHint:
			diag.Hint = value
		case protocol.FieldPosition:
			if pos, err := strconv.ParseInt(value, 10, 32); err == nil {
				diag.Position = int32(pos)
			}
		case protocol.FieldInternalPosition:
			if pos, err := strconv.ParseInt(value, 10, 32); err == nil {
				diag.InternalPosition = int32(pos)
			}
		case protocol.FieldInternalQuery:
			diag.InternalQuery = value
		case protocol.FieldWhere:
			diag.Where = value
		case protocol.FieldSchema:
			diag.Schema = value
		case protocol.FieldTable:
			diag.Table = value
		case protocol.FieldColumn:
			diag.Column = value
		case protocol.FieldDataType:
			diag.DataType = value
		case protocol.FieldConstraint:
			diag.Constraint = value
		}
	}

	if err := diag.Validate(); err != nil {
		warnInvalidDiagnostic(msgType, diag, err)
	}

	return diag
}
