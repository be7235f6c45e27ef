package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/routemeta/pkg/registry"
)

// clientMessage is a transition requested by a feed client. Any other keys
// are ignored.
type clientMessage struct {
	Route  string            `json:"route"`
	Params map[string]string `json:"params,omitempty"`
}

// serverMessage carries either a title or an error.
type serverMessage struct {
	Title *string `json:"title,omitempty"`
	Error string  `json:"error,omitempty"`
}

// session is one title feed connection.
type session struct {
	conn   *websocket.Conn
	fork   *registry.Registry
	config *SessionConfig

	mu     sync.Mutex
	queue  []serverMessage
	notify chan struct{}

	closeOnce sync.Once
	done      chan struct{}
}

func newSession(conn *websocket.Conn, fork *registry.Registry, config *SessionConfig) *session {
	return &session{
		conn:   conn,
		fork:   fork,
		config: config,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// push queues m for the writer. A queued title not yet written is replaced
// by a newer one.
func (s *session) push(m serverMessage) {
	s.mu.Lock()
	if m.Title != nil && len(s.queue) > 0 && s.queue[len(s.queue)-1].Title != nil {
		s.queue[len(s.queue)-1] = m
	} else {
		s.queue = append(s.queue, m)
	}
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *session) drain() []serverMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queue
	s.queue = nil
	return q
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		if s.metrics != nil {
			s.metrics.RecordWebSocketError("upgrade")
		}
		return
	}

	sess := newSession(conn, s.registry.Fork(), s.config.SessionConfig)
	s.sessionsMu.Lock()
	s.sessions[sess] = struct{}{}
	s.sessionsMu.Unlock()
	if s.metrics != nil {
		s.metrics.RecordSessionOpen()
	}

	stop := sess.fork.ObserveTitle(func(title string) {
		if sess.fork.Active() == nil {
			return
		}
		sess.push(serverMessage{Title: &title})
	})

	go s.writeLoop(sess)
	s.readLoop(r.Context(), sess)

	stop()
	sess.close()
	s.sessionsMu.Lock()
	delete(s.sessions, sess)
	s.sessionsMu.Unlock()
	if s.metrics != nil {
		s.metrics.RecordSessionClose()
	}
}

func (s *Server) readLoop(ctx context.Context, sess *session) {
	cfg := sess.config
	conn := sess.conn
	conn.SetReadLimit(cfg.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-sess.done:
			default:
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.logger.Warn("title feed read failed", "error", err)
					if s.metrics != nil {
						s.metrics.RecordWebSocketError("read")
					}
				}
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Route == "" {
			if s.metrics != nil {
				s.metrics.RecordWebSocketError("decode")
			}
			sess.push(serverMessage{Error: "expected {\"route\": \"name\"}"})
			continue
		}

		if _, err := s.transition(ctx, sess.fork, msg.Route, msg.Params); err != nil {
			sess.push(serverMessage{Error: err.Error()})
		}
	}
}

func (s *Server) writeLoop(sess *session) {
	cfg := sess.config
	ticker := time.NewTicker(cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sess.done:
			return

		case <-sess.notify:
			for _, m := range sess.drain() {
				sess.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
				if err := sess.conn.WriteJSON(m); err != nil {
					s.logger.Warn("title feed write failed", "error", err)
					if s.metrics != nil {
						s.metrics.RecordWebSocketError("write")
					}
					sess.close()
					return
				}
				if m.Title != nil && s.metrics != nil {
					s.metrics.RecordTitleChange()
				}
			}

		case <-ticker.C:
			deadline := time.Now().Add(cfg.WriteTimeout)
			if err := sess.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				sess.close()
				return
			}
		}
	}
}
