// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_display

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientSendSize = 64
)

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.send) })
}

// Hub fans events out to websocket subscribers. A subscriber that cannot
// keep up is disconnected. New subscribers first receive the latest event
// of every type.
type Hub struct {
	logger   commons.Logger
	upgrader websocket.Upgrader

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	latest      map[EventType][]byte
	order       []EventType
}

func NewHub(logger commons.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		subscribers: make(map[*subscriber]struct{}),
		latest:      make(map[EventType][]byte),
	}
}

func (h *Hub) Broadcast(event Event) {
	payload, err := event.Marshal()
	if err != nil {
		h.logger.Errorf("hub: unable to marshal %s event: %v", event.Type, err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.latest[event.Type]; !ok {
		h.order = append(h.order, event.Type)
	}
	h.latest[event.Type] = payload
	for sub := range h.subscribers {
		select {
		case sub.send <- payload:
		default:
			h.logger.Warnf("hub: subscriber too slow, disconnecting")
			delete(h.subscribers, sub)
			sub.close()
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *Hub) Render(_ context.Context, state internal_type.RenderState) {
	h.Broadcast(NewEvent(EventSummary, state))
}

func (h *Hub) RenderSegment(_ context.Context, e internal_type.SegmentEvent) {
	h.Broadcast(NewEvent(EventSegment, e))
}

func (h *Hub) RenderTimer(_ context.Context, e internal_type.TimerEvent) {
	h.Broadcast(NewEvent(EventTimer, e))
}

func (h *Hub) RenderSession(_ context.Context, e internal_type.SessionEvent) {
	h.Broadcast(NewEvent(EventSession, e))
}

// RenderDelta streams partial transcription text of one segment.
func (h *Hub) RenderDelta(index int, partial string) {
	h.Broadcast(NewEvent(EventTranscriptDelta, TranscriptDelta{Index: index, Text: partial}))
}

// Serve upgrades the request and streams events until the peer goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	sub := &subscriber{conn: conn, send: make(chan []byte, clientSendSize)}

	h.mu.Lock()
	for _, t := range h.order {
		sub.send <- h.latest[t]
	}
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	go h.writePump(sub)
	h.readPump(sub)
	return nil
}

func (h *Hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	if _, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		sub.close()
	}
	h.mu.Unlock()
}

// readPump only exists to notice the close and answer pings.
func (h *Hub) readPump(sub *subscriber) {
	defer func() {
		h.unsubscribe(sub)
		sub.conn.Close()
	}()
	sub.conn.SetReadLimit(512)
	sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debugf("hub: subscriber closed: %v", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
