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

// Package client implements the extended-query execution engine: parameter
// binding, prepared and ad-hoc statement execution, and pull-based row
// streaming over a shared connection.
package client

import (
	"context"
	"errors"
	"sync"

	"github.com/pgasync/pgasync/go/pgtypes"
	"github.com/pgasync/pgasync/go/wire"
)

// ErrConnectionClosed is reported by a reply channel whose connection went
// away before the request's replies were fully delivered.
var ErrConnectionClosed = errors.New("connection closed")

// Sender is the engine's handle to a shared connection. The connection layer
// owns the socket, the startup handshake, and the multiplexing of concurrent
// requests; the engine only encodes batches and consumes reply channels.
type Sender interface {
	// WithBuffer gives fn scoped exclusive access to the connection's
	// reusable encode buffer and returns the bytes fn accumulated. The
	// buffer is taken and reset on every exit path, so a failed encode
	// never leaks partial bytes into the next request.
	WithBuffer(fn func(w *wire.MessageWriter) error) ([]byte, error)

	// Send hands a pre-encoded message batch to the connection and returns
	// the ordered reply channel for it. The channel carries exactly the
	// replies the server sent for this batch, in order, with asynchronous
	// messages (notices, parameter status, notifications) already filtered
	// by the connection layer.
	Send(batch []byte) (Replies, error)
}

// Replies is an ordered, pull-based channel of one request's backend
// replies. Next blocks until the next reply arrives, the context is done,
// or the connection is closed.
type Replies interface {
	Next(ctx context.Context) (wire.BackendMessage, error)
}

// ReplyQueue is a channel-backed Replies implementation for connection
// layers and tests. Push and CloseSend are called by the producer; Next by
// the consuming engine.
type ReplyQueue struct {
	ch chan wire.BackendMessage
}

// NewReplyQueue creates a reply queue with the given buffer size.
func NewReplyQueue(size int) *ReplyQueue {
	return &ReplyQueue{ch: make(chan wire.BackendMessage, size)}
}

// Push delivers the next reply to the consumer.
func (q *ReplyQueue) Push(m wire.BackendMessage) {
	q.ch <- m
}

// CloseSend marks the end of the producer's replies. A consumer that pulls
// past the end sees ErrConnectionClosed.
func (q *ReplyQueue) CloseSend() {
	close(q.ch)
}

// Next implements Replies.
func (q *ReplyQueue) Next(ctx context.Context) (wire.BackendMessage, error) {
	select {
	case m, ok := <-q.ch:
		if !ok {
			return nil, ErrConnectionClosed
		}
		return m, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ConnRef is a non-owning reference to a connection's send path. Statement
// teardown resolves it at release time; once the connection layer calls
// Release, resolution fails and teardown silently does nothing. Holding a
// ConnRef never extends the connection's lifetime.
type ConnRef struct {
	mu     sync.Mutex
	sender Sender
}

// NewConnRef creates a resolvable reference to the given sender.
func NewConnRef(sender Sender) *ConnRef {
	return &ConnRef{sender: sender}
}

// Resolve returns the sender, or nil if the connection is gone.
func (r *ConnRef) Resolve() Sender {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sender
}

// Release severs the reference. Called by the connection layer when the
// connection closes; safe to call more than once.
func (r *ConnRef) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sender = nil
}

// Client executes statements over a shared connection.
type Client struct {
	conn  Sender
	ref   *ConnRef
	types pgtypes.TypeResolver
}

// NewClient creates a client over the given connection handle. The resolver
// is used by the ad-hoc query path to turn wire type OIDs into type
// descriptors; pgtypes.BuiltinResolver covers the builtin types.
func NewClient(conn Sender, types pgtypes.TypeResolver) *Client {
	return &Client{
		conn:  conn,
		ref:   NewConnRef(conn),
		types: types,
	}
}

// Ref returns the client's connection back-reference. The connection layer
// releases it on close so that late statement teardown becomes a no-op.
func (c *Client) Ref() *ConnRef {
	return c.ref
}
