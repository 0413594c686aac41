package notify

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// Hub keeps the websocket subscribers of every establishment.
type Hub struct {
	mu     sync.RWMutex
	groups map[uuid.UUID]map[*subscriber]struct{}
}

type subscriber struct {
	hub             *Hub
	establishmentID uuid.UUID
	conn            *websocket.Conn
	send            chan []byte
	closeOnce       sync.Once
}

func NewHub() *Hub {
	return &Hub{groups: make(map[uuid.UUID]map[*subscriber]struct{})}
}

// Subscribers returns how many sockets listen to the establishment.
func (h *Hub) Subscribers(establishmentID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[establishmentID])
}

// Publish queues the event on every socket of the establishment. A socket
// whose buffer is full is dropped rather than blocking the publisher.
func (h *Hub) Publish(ctx context.Context, establishmentID uuid.UUID, ev Event) error {
	msg, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	h.mu.RLock()
	var slow []*subscriber
	for s := range h.groups[establishmentID] {
		select {
		case s.send <- msg:
		default:
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range slow {
		log.Printf("Dropping slow websocket subscriber of establishment %s", establishmentID)
		h.remove(s)
	}
	return nil
}

// Serve registers conn under the establishment and blocks until the peer
// goes away. The hub owns conn from here on.
func (h *Hub) Serve(conn *websocket.Conn, establishmentID uuid.UUID) {
	s := &subscriber{
		hub:             h,
		establishmentID: establishmentID,
		conn:            conn,
		send:            make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	group, ok := h.groups[establishmentID]
	if !ok {
		group = make(map[*subscriber]struct{})
		h.groups[establishmentID] = group
	}
	group[s] = struct{}{}
	h.mu.Unlock()

	go s.writePump()
	s.readPump()
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	if group, ok := h.groups[s.establishmentID]; ok {
		if _, ok := group[s]; ok {
			delete(group, s)
			if len(group) == 0 {
				delete(h.groups, s.establishmentID)
			}
		}
	}
	h.mu.Unlock()
	s.closeOnce.Do(func() { close(s.send) })
}

// readPump only consumes control frames; dashboards never send data.
func (s *subscriber) readPump() {
	defer func() {
		s.hub.remove(s)
		s.conn.Close()
	}()
	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
