// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package streaming

import (
	"context"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// wsConn is the subset of *websocket.Conn a WSSession needs. Abstracted so
// tests can substitute a fake connection instead of driving a real upgrade
// handshake over TCP.
type wsConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	NextWriter(messageType int) (io.WriteCloser, error)
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadDeadline(t time.Time) error
	Close() error
}

// Message is one received WebSocket frame record.
type Message struct {
	Bytes    []byte
	Length   int
	IsEnd    bool
	IsClose  bool
	SenderID string
}

// OnReceiveFunc handles an inbound message when no WaitNext caller is
// parked.
type OnReceiveFunc func(Message)

type wsState int32

const (
	wsOpen wsState = iota
	wsClosed
)

// WSSession is a duplex WebSocket message channel: a background
// receive loop, chunked sends, and blocking-wait primitives.
type WSSession struct {
	id         string
	conn       wsConn
	registry   *Registry
	bufferSize int
	onReceive  OnReceiveFunc

	state atomic.Int32

	cancel context.CancelFunc

	mu       sync.Mutex
	sendMu   sync.Mutex
	waiter   chan Message
	closedCh chan struct{}
}

// NewWSSession upgrades w/r to a WebSocket connection, registers the
// resulting session, and starts its background receive loop. If
// closeTimeout is non-zero, it becomes the deadline on the receive-loop
// cancellation source.
func NewWSSession(upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request, identifier string, bufferSize int, closeTimeout time.Duration, onReceive OnReceiveFunc, registry *Registry) (*WSSession, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return newWSSessionWithConn(conn, identifier, bufferSize, closeTimeout, onReceive, registry), nil
}

// newWSSessionWithConn is the constructor body factored out for testing
// against a fake wsConn.
func newWSSessionWithConn(conn wsConn, identifier string, bufferSize int, closeTimeout time.Duration, onReceive OnReceiveFunc, registry *Registry) *WSSession {
	if bufferSize <= 0 {
		bufferSize = 4096
	}
	ctx := context.Background()
	var cancel context.CancelFunc
	if closeTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, closeTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	s := &WSSession{
		id:         identifier,
		conn:       conn,
		registry:   registry,
		bufferSize: bufferSize,
		onReceive:  onReceive,
		cancel:     cancel,
		closedCh:   make(chan struct{}),
	}

	if registry != nil {
		registry.Register(s)
	}
	go func() {
		<-ctx.Done()
		_ = conn.SetReadDeadline(time.Now())
	}()
	go s.receiveLoop(ctx)
	return s
}

// Identifier implements Session.
func (s *WSSession) Identifier() string { return s.id }

// Active implements Session: true iff the session is Open.
func (s *WSSession) Active() bool { return wsState(s.state.Load()) == wsOpen }

// receiveLoop is the session's single dedicated receive task.
func (s *WSSession) receiveLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			_ = s.Terminate()
			return
		default:
		}

		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			_ = s.Terminate()
			return
		}

		isClose := msgType == websocket.CloseMessage
		msg := Message{Bytes: data, Length: len(data), IsEnd: true, IsClose: isClose, SenderID: s.id}

		s.mu.Lock()
		waiter := s.waiter
		s.waiter = nil
		s.mu.Unlock()

		switch {
		case waiter != nil:
			waiter <- msg
		case s.onReceive != nil:
			s.onReceive(msg)
		}

		if isClose {
			_ = s.Terminate()
			return
		}
	}
}

// Send UTF-8 encodes text and sends it as a single text-type message.
func (s *WSSession) Send(text string) error {
	return s.SendBytes([]byte(text), true)
}

// SendBytes sends data as a single message, fragmented into one or more
// frames chunked to bufferSize, with the FIN bit set only on the last
// frame NextWriter's Close writes. Sends on a closed session are no-ops.
func (s *WSSession) SendBytes(data []byte, asText bool) error {
	if !s.Active() {
		return nil
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	msgType := websocket.BinaryMessage
	if asText {
		msgType = websocket.TextMessage
	}

	w, err := s.conn.NextWriter(msgType)
	if err != nil {
		return err
	}

	for start := 0; start < len(data); start += s.bufferSize {
		end := start + s.bufferSize
		if end > len(data) {
			end = len(data)
		}
		if _, err := w.Write(data[start:end]); err != nil {
			_ = w.Close()
			return err
		}
	}
	return w.Close()
}

// WaitForClose blocks until the session is Closed. If timeout is
// positive, it also becomes the receive loop's cancellation deadline: on
// expiry the session is terminated via the same cancel func the loop
// already watches, rather than WaitForClose simply giving up and
// returning with the session left open.
func (s *WSSession) WaitForClose(timeout time.Duration) {
	if timeout <= 0 {
		<-s.closedCh
		return
	}
	timer := time.AfterFunc(timeout, s.cancel)
	defer timer.Stop()
	<-s.closedCh
}

// WaitNext blocks until the next inbound message arrives or the
// connection errors, in which case it returns the zero Message and
// false.
func (s *WSSession) WaitNext() (Message, bool) {
	ch := make(chan Message, 1)
	s.mu.Lock()
	if !s.Active() {
		s.mu.Unlock()
		return Message{}, false
	}
	s.waiter = ch
	s.mu.Unlock()

	select {
	case m := <-ch:
		return m, true
	case <-s.closedCh:
		return Message{}, false
	}
}

// Close issues a normal-closure frame if still Open, transitions to
// Closed, and unregisters. Idempotent.
func (s *WSSession) Close() error {
	if s.state.Load() == int32(wsOpen) {
		deadline := time.Now().Add(time.Second)
		closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteControl(websocket.CloseMessage, closeMsg, deadline)
	}
	return s.Terminate()
}

// Terminate implements Session for the registry's force-close path.
func (s *WSSession) Terminate() error {
	if !s.state.CompareAndSwap(int32(wsOpen), int32(wsClosed)) {
		return nil
	}
	s.cancel()
	close(s.closedCh)
	err := s.conn.Close()
	if s.registry != nil {
		s.registry.Unregister(s)
	}
	return err
}
