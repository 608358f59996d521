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

package pgerrors

import "fmt"

// ParameterCountError reports a mismatch between a statement's declared
// parameter types and the values supplied for a Bind. It is detected before
// any bytes are encoded.
type ParameterCountError struct {
	Expected int
	Got      int
}

func (e *ParameterCountError) Error() string {
	return fmt.Sprintf("expected %d parameters but got %d", e.Expected, e.Got)
}

// ParameterConversionError reports that serializing the parameter at Index
// (zero-based) failed. Parameters after Index were never serialized.
type ParameterConversionError struct {
	Index int
	Err   error
}

func (e *ParameterConversionError) Error() string {
	return fmt.Sprintf("error serializing parameter %d: %v", e.Index, e.Err)
}

func (e *ParameterConversionError) Unwrap() error {
	return e.Err
}

// SerializationError reports a buffer-level encoding failure unrelated to
// value conversion, such as a message body overflowing the frame length.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("error encoding message: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// ProtocolError reports a backend message that is not valid for the current
// point in the reply sequence.
type ProtocolError struct {
	// MsgType is the unexpected message's type byte, or 0 when the
	// violation is a missing message rather than an extra one.
	MsgType byte
}

func (e *ProtocolError) Error() string {
	if e.MsgType == 0 {
		return "unexpected message from server"
	}
	return fmt.Sprintf("unexpected message from server: %c (0x%02x)", e.MsgType, e.MsgType)
}

// MessageParseError reports a malformed field inside an otherwise
// well-framed backend message.
type MessageParseError struct {
	MsgType byte
	Err     error
}

func (e *MessageParseError) Error() string {
	return fmt.Sprintf("error parsing %c message from server: %v", e.MsgType, e.Err)
}

func (e *MessageParseError) Unwrap() error {
	return e.Err
}

// Unexpected returns a ProtocolError for the given message type byte.
func Unexpected(msgType byte) error {
	return &ProtocolError{MsgType: msgType}
}
