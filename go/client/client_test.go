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
	"encoding/binary"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pgasync/pgasync/go/pgtypes"
	"github.com/pgasync/pgasync/go/wire"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeConn is a Sender whose reply channels are scripted per Send call.
type fakeConn struct {
	mu      sync.Mutex
	writer  wire.MessageWriter
	sent    [][]byte
	sendErr error
	replies []*ReplyQueue
}

func (f *fakeConn) WithBuffer(fn func(w *wire.MessageWriter) error) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := fn(&f.writer)
	buf := f.writer.Take()
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (f *fakeConn) Send(batch []byte) (Replies, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, batch)
	if len(f.replies) == 0 {
		q := NewReplyQueue(0)
		q.CloseSend()
		return q, nil
	}
	q := f.replies[0]
	f.replies = f.replies[1:]
	return q, nil
}

// script queues a fixed reply sequence for the next Send.
func (f *fakeConn) script(msgs ...wire.BackendMessage) {
	q := NewReplyQueue(len(msgs))
	for _, m := range msgs {
		q.Push(m)
	}
	q.CloseSend()
	f.replies = append(f.replies, q)
}

// sentTypes decodes the message type bytes of one sent batch.
func sentTypes(t *testing.T, batch []byte) []byte {
	t.Helper()
	var types []byte
	for len(batch) > 0 {
		require.GreaterOrEqual(t, len(batch), 5)
		types = append(types, batch[0])
		length := binary.BigEndian.Uint32(batch[1:5])
		require.GreaterOrEqual(t, len(batch), 1+int(length))
		batch = batch[1+length:]
	}
	return types
}

func newTestClient(fc *fakeConn) *Client {
	return NewClient(fc, pgtypes.BuiltinResolver())
}

func testStatement(c *Client) *Statement {
	columns := []Column{
		NewColumn("id", pgtypes.TypeInt4, 1, 16384),
		NewColumn("name", pgtypes.TypeText, 2, 16384),
	}
	return NewStatement(c.Ref(), "s1", []pgtypes.Type{pgtypes.TypeInt4}, columns)
}

func dataRow(values ...[]byte) wire.DataRow {
	return wire.DataRow{Values: values}
}

func readyIdle() wire.ReadyForQuery {
	return wire.ReadyForQuery{TxnStatus: 'I'}
}
