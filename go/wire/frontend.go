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
	"math"

	"github.com/pgasync/pgasync/go/protocol"
)

// Parse appends a Parse message.
// name is the statement name (empty for the unnamed statement).
// paramTypeOIDs are the OIDs of parameter types (0 for unspecified).
func Parse(w *MessageWriter, name, query string, paramTypeOIDs []uint32) error {
	if len(paramTypeOIDs) > math.MaxInt16 {
		return fmt.Errorf("too many parameter types: %d", len(paramTypeOIDs))
	}
	w.BeginMessage(protocol.MsgParse)
	w.WriteString(name)
	w.WriteString(query)
	w.WriteInt16(int16(len(paramTypeOIDs)))
	for _, oid := range paramTypeOIDs {
		w.WriteUint32(oid)
	}
	return w.EndMessage()
}

// Bind appends a Bind message.
// params entries are pre-serialized values; nil means NULL.
// paramFormats and resultFormats are format codes (0=text, 1=binary).
func Bind(w *MessageWriter, portal, statement string, paramFormats []int16, params [][]byte, resultFormats []int16) error {
	if len(paramFormats) > math.MaxInt16 || len(params) > math.MaxInt16 || len(resultFormats) > math.MaxInt16 {
		return fmt.Errorf("too many parameters: %d", len(params))
	}
	w.BeginMessage(protocol.MsgBind)
	w.WriteString(portal)
	w.WriteString(statement)

	// Parameter format codes.
	w.WriteInt16(int16(len(paramFormats)))
	for _, f := range paramFormats {
		w.WriteInt16(f)
	}

	// Parameter values.
	w.WriteInt16(int16(len(params)))
	for _, p := range params {
		if err := w.WriteByteString(p); err != nil {
			return err
		}
	}

	// Result format codes.
	w.WriteInt16(int16(len(resultFormats)))
	for _, f := range resultFormats {
		w.WriteInt16(f)
	}

	return w.EndMessage()
}

// Describe appends a Describe message for a statement or portal.
func Describe(w *MessageWriter, kind byte, name string) error {
	w.BeginMessage(protocol.MsgDescribe)
	w.WriteByte(kind)
	w.WriteString(name)
	return w.EndMessage()
}

// Execute appends an Execute message. maxRows of 0 means unlimited.
func Execute(w *MessageWriter, portal string, maxRows int32) error {
	w.BeginMessage(protocol.MsgExecute)
	w.WriteString(portal)
	w.WriteInt32(maxRows)
	return w.EndMessage()
}

// Sync appends a Sync message.
func Sync(w *MessageWriter) error {
	w.BeginMessage(protocol.MsgSync)
	return w.EndMessage()
}

// Close appends a Close message for a statement or portal.
func Close(w *MessageWriter, kind byte, name string) error {
	w.BeginMessage(protocol.MsgClose)
	w.WriteByte(kind)
	w.WriteString(name)
	return w.EndMessage()
}
