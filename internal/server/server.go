// Package server exposes a game session over a WebSocket gateway: clients
// receive a JSON snapshot after every mutation and submit JSON action
// requests. This is presentation transport for the local UI, not
// multiplayer networking.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Walshwade-dev/ak47/internal/game"
)

// MessageType discriminates outgoing messages.
type MessageType string

const (
	MessageSnapshot MessageType = "snapshot"
	MessageError    MessageType = "error"
)

// Message is the outgoing frame.
type Message struct {
	Type     MessageType    `json:"type"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Server fans session snapshots out to connected clients and feeds their
// action requests into the session.
type Server struct {
	session *game.Session
	log     *logrus.Entry

	mu      sync.Mutex
	clients map[uuid.UUID]chan Message
}

// New wires a server to the session's broadcast callback.
func New(session *game.Session, logger *logrus.Logger) *Server {
	s := &Server{
		session: session,
		log:     logger.WithField("component", "server"),
		clients: make(map[uuid.UUID]chan Message),
	}
	session.BroadcastFn = s.broadcastSnapshot
	return s
}

// Handler returns the HTTP routes: /ws for the gateway, /healthz for
// liveness.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (s *Server) broadcastSnapshot(snap game.Snapshot) {
	msg := Message{Type: MessageSnapshot, Snapshot: &snap}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.clients {
		select {
		case ch <- msg:
		default:
			// Slow consumer: drop the frame, the next snapshot supersedes it.
			s.log.WithField("client", id).Warn("dropping snapshot for slow client")
		}
	}
}

func (s *Server) addClient() (uuid.UUID, chan Message) {
	id := uuid.New()
	ch := make(chan Message, 16)
	s.mu.Lock()
	s.clients[id] = ch
	s.mu.Unlock()
	return id, ch
}

func (s *Server) removeClient(id uuid.UUID) {
	s.mu.Lock()
	delete(s.clients, id)
	s.mu.Unlock()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "connection torn down")

	id, ch := s.addClient()
	defer s.removeClient(id)
	s.log.WithField("client", id).Info("client connected")

	ctx := r.Context()

	// Initial state so the client can render before any action.
	first := s.session.Snapshot()
	if err := wsjson.Write(ctx, conn, Message{Type: MessageSnapshot, Snapshot: &first}); err != nil {
		return
	}

	// Writer: forward broadcast frames until the connection dies.
	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-ch:
				wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
				err := wsjson.Write(wctx, conn, msg)
				cancel()
				if err != nil {
					return
				}
			}
		}
	}()

	// Reader: decode actions and feed the session.
	for {
		var a game.Action
		if err := wsjson.Read(ctx, conn, &a); err != nil {
			break
		}
		if err := s.session.HandleAction(ctx, a); err != nil {
			s.log.WithError(err).WithField("action", a.Type).Warn("action failed")
			select {
			case ch <- Message{Type: MessageError, Error: err.Error()}:
			default:
			}
		}
	}

	conn.Close(websocket.StatusNormalClosure, "bye")
	<-writeDone
	s.log.WithField("client", id).Info("client disconnected")
}
