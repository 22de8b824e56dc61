package chat

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const defaultHistorySize = 50

// Message is one chat event on a dance floor.
type Message struct {
	Type   string    `json:"type"`
	Floor  string    `json:"floor"`
	Dancer string    `json:"dancer"`
	Text   string    `json:"text,omitempty"`
	At     time.Time `json:"at"`
}

type floor struct {
	connections map[*websocket.Conn]string
	history     []Message
}

// Hub tracks who is on which dance floor and fans messages out, keeping a
// bounded history per floor for late joiners.
type Hub struct {
	mu          sync.Mutex
	floors      map[string]*floor
	historySize int
}

func NewHub(historySize int) *Hub {
	if historySize <= 0 {
		historySize = defaultHistorySize
	}
	return &Hub{
		floors:      make(map[string]*floor),
		historySize: historySize,
	}
}

func (h *Hub) Join(floorName string, ws *websocket.Conn, dancer string) []Message {
	var history []Message
	h.mu.Lock()
	f := h.floorLocked(floorName)
	f.connections[ws] = dancer
	history = append(history, f.history...)
	h.mu.Unlock()

	h.Broadcast(Message{
		Type:   "dancer_join",
		Floor:  floorName,
		Dancer: dancer,
		At:     time.Now().UTC(),
	})

	return history
}

func (h *Hub) Leave(floorName string, ws *websocket.Conn) {
	var dancer string
	h.mu.Lock()
	if f, ok := h.floors[floorName]; ok {
		if d, exists := f.connections[ws]; exists {
			dancer = d
		}
		delete(f.connections, ws)
	}
	h.mu.Unlock()

	_ = ws.Close()

	if dancer != "" {
		h.Broadcast(Message{
			Type:   "dancer_leave",
			Floor:  floorName,
			Dancer: dancer,
			At:     time.Now().UTC(),
		})
	}
}

func (h *Hub) Broadcast(msg Message) {
	if msg.At.IsZero() {
		msg.At = time.Now().UTC()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	f, ok := h.floors[msg.Floor]
	if !ok {
		return
	}

	if msg.Type == "message" {
		f.history = append(f.history, msg)
		if len(f.history) > h.historySize {
			f.history = f.history[len(f.history)-h.historySize:]
		}
	}

	for ws := range f.connections {
		if err := ws.WriteMessage(websocket.TextMessage, payload); err != nil {
			_ = ws.Close()
			delete(f.connections, ws)
		}
	}
}

func (h *Hub) History(floorName string) []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	if f, ok := h.floors[floorName]; ok {
		return append([]Message(nil), f.history...)
	}
	return nil
}

func (h *Hub) Dancer(floorName string, ws *websocket.Conn) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if f, ok := h.floors[floorName]; ok {
		return f.connections[ws]
	}
	return ""
}

func (h *Hub) floorLocked(floorName string) *floor {
	f, ok := h.floors[floorName]
	if !ok {
		f = &floor{connections: make(map[*websocket.Conn]string)}
		h.floors[floorName] = f
	}
	return f
}
