package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/omega-realm/arena/internal/duel"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// duelMessage is pushed to both participants after every duel change
type duelMessage struct {
	Type       string    `json:"type"`
	Duel       duel.View `json:"duel"`
	ServerTime int64     `json:"serverTime"`
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// DuelHub fans duel snapshots out to connected players. One connection per
// player; a new connection replaces the old one.
type DuelHub struct {
	mu          sync.Mutex
	subscribers map[string]*subscriber
}

func NewDuelHub() *DuelHub {
	return &DuelHub{subscribers: make(map[string]*subscriber)}
}

// Subscribe associates a websocket connection with playerID.
func (h *DuelHub) Subscribe(playerID string, conn *websocket.Conn) *subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.subscribers[playerID]; ok {
		existing.conn.Close()
	}
	sub := &subscriber{conn: conn}
	h.subscribers[playerID] = sub
	return sub
}

// Disconnect drops sub if it is still the player's current connection.
func (h *DuelHub) Disconnect(playerID string, sub *subscriber) {
	h.mu.Lock()
	current, ok := h.subscribers[playerID]
	if ok && current == sub {
		delete(h.subscribers, playerID)
	}
	h.mu.Unlock()
	sub.conn.Close()
}

// Count returns the number of connected players.
func (h *DuelHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// DuelUpdated sends view to whichever participants are connected.
func (h *DuelHub) DuelUpdated(view duel.View) {
	data, err := json.Marshal(duelMessage{Type: "duel", Duel: view, ServerTime: time.Now().UnixMilli()})
	if err != nil {
		log.Printf("[Stream] Failed to marshal duel %s: %v", view.ID, err)
		return
	}

	h.mu.Lock()
	targets := make(map[string]*subscriber, 2)
	for _, p := range view.Players {
		if sub, ok := h.subscribers[p.ID]; ok {
			targets[p.ID] = sub
		}
	}
	h.mu.Unlock()

	for id, sub := range targets {
		if err := sub.write(data); err != nil {
			log.Printf("[Stream] Failed to send duel update to %s: %v", id, err)
			h.Disconnect(id, sub)
		}
	}
}

// Stream upgrades the request and keeps the connection until the client
// goes away. Clients only listen; inbound messages are discarded.
func (h *DuelHub) Stream(w http.ResponseWriter, r *http.Request) {
	playerID, ok := authenticatedPlayer(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Stream] Upgrade failed for %s: %v", playerID, err)
		return
	}

	sub := h.Subscribe(playerID, conn)
	log.Printf("[Stream] Player %s connected", playerID)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.Disconnect(playerID, sub)
			log.Printf("[Stream] Player %s disconnected", playerID)
			return
		}
	}
}
