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

// Package wire implements encoding and decoding of PostgreSQL protocol
// messages. Frontend messages are appended to a reusable MessageWriter owned
// by the connection; backend messages are parsed from already-framed bodies
// into typed values.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// MessageWriter accumulates framed frontend messages in a reusable buffer.
// A message is written by BeginMessage, the body Write* methods, and
// EndMessage, which back-patches the length field. Take hands off the
// accumulated bytes and resets the writer for the next encode.
type MessageWriter struct {
	buf []byte

	// msgStart is the offset of the current message's length field,
	// or -1 when no message is open.
	msgStart int
}

// NewMessageWriter creates a new message writer.
func NewMessageWriter() *MessageWriter {
	return &MessageWriter{buf: make([]byte, 0, 256), msgStart: -1}
}

// Bytes returns the accumulated bytes without resetting the writer.
func (w *MessageWriter) Bytes() []byte {
	return w.buf
}

// Len returns the current length of the accumulated bytes.
func (w *MessageWriter) Len() int {
	return len(w.buf)
}

// Take returns the accumulated bytes and resets the writer for reuse.
// The returned slice is detached from the writer's internal buffer.
func (w *MessageWriter) Take() []byte {
	out := make([]byte, len(w.buf))
	copy(out, w.buf)
	w.Reset()
	return out
}

// Reset discards all accumulated bytes.
func (w *MessageWriter) Reset() {
	w.buf = w.buf[:0]
	w.msgStart = -1
}

// BeginMessage starts a framed message of the given type. The length field
// is written as a placeholder and patched by EndMessage.
func (w *MessageWriter) BeginMessage(msgType byte) {
	w.buf = append(w.buf, msgType)
	w.msgStart = len(w.buf)
	w.buf = append(w.buf, 0, 0, 0, 0)
}

// EndMessage patches the length field of the message opened by BeginMessage.
// The length includes itself but not the message type byte.
func (w *MessageWriter) EndMessage() error {
	if w.msgStart < 0 {
		return fmt.Errorf("EndMessage without BeginMessage")
	}
	length := len(w.buf) - w.msgStart
	if length > math.MaxInt32 {
		return fmt.Errorf("message length %d overflows int32", length)
	}
	binary.BigEndian.PutUint32(w.buf[w.msgStart:], uint32(length))
	w.msgStart = -1
	return nil
}

// WriteByte writes a single byte.
func (w *MessageWriter) WriteByte(b byte) {
	w.buf = append(w.buf, b)
}

// WriteBytes writes raw bytes.
func (w *MessageWriter) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteUint16 writes a 16-bit unsigned integer in network byte order.
func (w *MessageWriter) WriteUint16(v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	w.buf = append(w.buf, buf[:]...)
}

// WriteUint32 writes a 32-bit unsigned integer in network byte order.
func (w *MessageWriter) WriteUint32(v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	w.buf = append(w.buf, buf[:]...)
}

// WriteInt16 writes a 16-bit signed integer in network byte order.
func (w *MessageWriter) WriteInt16(v int16) {
	w.WriteUint16(uint16(v))
}

// WriteInt32 writes a 32-bit signed integer in network byte order.
func (w *MessageWriter) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteString writes a null-terminated string.
func (w *MessageWriter) WriteString(s string) {
	w.buf = append(w.buf, []byte(s)...)
	w.buf = append(w.buf, 0)
}

// WriteByteString writes a length-prefixed byte string (4-byte length + data).
// Writes -1 for nil (NULL).
func (w *MessageWriter) WriteByteString(b []byte) error {
	if b == nil {
		w.WriteInt32(-1)
		return nil
	}
	if len(b) > math.MaxInt32 {
		return fmt.Errorf("byte string length %d overflows int32", len(b))
	}
	w.WriteInt32(int32(len(b)))
	w.WriteBytes(b)
	return nil
}

// MessageReader provides helper methods for reading message fields.
type MessageReader struct {
	buf []byte
	pos int
}

// NewMessageReader creates a new message reader for the given buffer.
func NewMessageReader(buf []byte) *MessageReader {
	return &MessageReader{buf: buf, pos: 0}
}

// Remaining returns the number of unread bytes.
func (r *MessageReader) Remaining() int {
	return len(r.buf) - r.pos
}

// ReadByte reads a single byte.
func (r *MessageReader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, io.EOF
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadUint16 reads a 16-bit unsigned integer in network byte order.
func (r *MessageReader) ReadUint16() (uint16, error) {
	if r.pos+2 > len(r.buf) {
		return 0, io.EOF
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadUint32 reads a 32-bit unsigned integer in network byte order.
func (r *MessageReader) ReadUint32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, io.EOF
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadInt16 reads a 16-bit signed integer in network byte order.
func (r *MessageReader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadInt32 reads a 32-bit signed integer in network byte order.
func (r *MessageReader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadString reads a null-terminated string.
func (r *MessageReader) ReadString() (string, error) {
	start := r.pos
	for r.pos < len(r.buf) {
		if r.buf[r.pos] == 0 {
			s := string(r.buf[start:r.pos])
			r.pos++ // Skip null terminator.
			return s, nil
		}
		r.pos++
	}
	return "", io.EOF
}

// ReadBytes reads n bytes.
func (r *MessageReader) ReadBytes(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, io.EOF
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadByteString reads a length-prefixed byte string (4-byte length + data).
// Returns nil if length is -1 (NULL).
func (r *MessageReader) ReadByteString() ([]byte, error) {
	length, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if length == -1 {
		return nil, nil // NULL
	}
	if length < 0 {
		return nil, fmt.Errorf("invalid byte string length: %d", length)
	}
	return r.ReadBytes(int(length))
}
