package net

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/l1jgo/simcore/internal/config"
	"go.uber.org/zap"
)

// Hub serves the renderer websocket at /ws. Frames go out to every
// connected client; key events come back in. New/dead sessions and key
// events are communicated to the game loop via channels.
type Hub struct {
	cfg      config.NetworkConfig
	upgrader websocket.Upgrader
	srv      *http.Server
	listener net.Listener

	nextID   atomic.Uint64
	newConns chan *Session
	deadCh   chan uint64 // session IDs of dead sessions
	events   chan KeyEvent

	sessions map[uint64]*Session // game loop only

	log *zap.Logger
}

func NewHub(cfg config.NetworkConfig, log *zap.Logger) *Hub {
	h := &Hub{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		newConns: make(chan *Session, 64),
		deadCh:   make(chan uint64, 64),
		events:   make(chan KeyEvent, cfg.InQueueSize),
		sessions: make(map[uint64]*Session),
		log:      log,
	}
	h.srv = &http.Server{Handler: h.Handler()}
	return h
}

// Handler exposes the websocket endpoint.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	return mux
}

// Start listens on the configured address and serves in its own goroutine.
func (h *Hub) Start() error {
	ln, err := net.Listen("tcp", h.cfg.BindAddress)
	if err != nil {
		return err
	}
	h.listener = ln
	go func() {
		if err := h.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.log.Error("websocket server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the listener's address once started.
func (h *Hub) Addr() net.Addr {
	if h.listener == nil {
		return nil
	}
	return h.listener.Addr()
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.String("ip", r.RemoteAddr), zap.Error(err))
		return
	}
	id := h.nextID.Add(1)
	sess := newSession(conn, id, h, h.log)
	sess.start()

	h.log.Info("renderer connected", zap.Uint64("session", id), zap.String("ip", r.RemoteAddr))

	select {
	case h.newConns <- sess:
	default:
		h.log.Warn("session queue full, rejecting connection")
		sess.Close()
	}
}

// Events returns the channel of key events received from clients.
func (h *Hub) Events() <-chan KeyEvent {
	return h.events
}

func (h *Hub) pushEvent(ev KeyEvent) {
	select {
	case h.events <- ev:
	default:
		h.log.Warn("event queue full, dropping key event", zap.Uint64("session", ev.Session), zap.Int("code", ev.Code))
	}
}

// notifyDead reports a dead session ID to the game loop.
func (h *Hub) notifyDead(sessionID uint64) {
	select {
	case h.deadCh <- sessionID:
	default:
	}
}

// Accept registers newly connected sessions and forgets dead ones. Called
// from the game loop once per tick.
func (h *Hub) Accept() (joined, left int) {
	for {
		select {
		case s := <-h.newConns:
			h.sessions[s.ID] = s
			joined++
		case id := <-h.deadCh:
			if _, ok := h.sessions[id]; ok {
				delete(h.sessions, id)
				left++
			}
		default:
			return joined, left
		}
	}
}

// Sessions returns the number of registered sessions.
func (h *Hub) Sessions() int { return len(h.sessions) }

// Broadcast queues data for every registered session. A session whose
// queue is full is disconnected.
func (h *Hub) Broadcast(data []byte) {
	for id, s := range h.sessions {
		if !s.Send(data) {
			delete(h.sessions, id)
		}
	}
}

// Shutdown stops accepting connections and closes every session.
func (h *Hub) Shutdown(ctx context.Context) error {
	for id, s := range h.sessions {
		s.Close()
		delete(h.sessions, id)
	}
	return h.srv.Shutdown(ctx)
}
