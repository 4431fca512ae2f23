package net

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Session is one connected renderer. Network I/O runs in dedicated
// goroutines; the game loop only calls Send and Close.
type Session struct {
	ID   uint64
	conn *websocket.Conn
	hub  *Hub

	out chan []byte // writer goroutine reads from here

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	log *zap.Logger
}

func newSession(conn *websocket.Conn, id uint64, hub *Hub, log *zap.Logger) *Session {
	size := hub.cfg.OutQueueSize
	if size <= 0 {
		size = 1
	}
	return &Session{
		ID:      id,
		conn:    conn,
		hub:     hub,
		out:     make(chan []byte, size),
		closeCh: make(chan struct{}),
		log:     log.With(zap.Uint64("session", id)),
	}
}

func (s *Session) start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send queues data for writing. It reports false, and closes the session,
// when the queue is full.
func (s *Session) Send(data []byte) bool {
	if s.closed.Load() {
		return false
	}
	select {
	case s.out <- data:
		return true
	default:
		s.log.Warn("output queue full, disconnecting slow client")
		s.Close()
		return false
	}
}

// Close shuts the session down. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) readLoop() {
	defer func() {
		s.Close()
		s.hub.notifyDead(s.ID)
	}()
	for {
		if d := s.hub.cfg.ReadTimeout; d > 0 {
			s.conn.SetReadDeadline(time.Now().Add(d))
		}
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read ended", zap.Error(err))
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.log.Warn("discarding malformed message", zap.Error(err))
			continue
		}
		switch msg.Type {
		case MessageKey:
			s.hub.pushEvent(KeyEvent{Session: s.ID, Code: msg.Code, Down: msg.Down})
		default:
			s.log.Debug("ignoring message", zap.String("type", msg.Type))
		}
	}
}

func (s *Session) writeLoop() {
	for {
		select {
		case data := <-s.out:
			if d := s.hub.cfg.WriteTimeout; d > 0 {
				s.conn.SetWriteDeadline(time.Now().Add(d))
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.log.Debug("write failed", zap.Error(err))
				s.Close()
				return
			}
		case <-s.closeCh:
			return
		}
	}
}
