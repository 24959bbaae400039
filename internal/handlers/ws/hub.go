package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// ClientConnection wraps a WebSocket connection with its subscription state
type ClientConnection struct {
	Conn         *websocket.Conn
	UserID       uint
	LastPong     time.Time
	SupportsGzip bool
	PingTicker   *time.Ticker
	CloseChan    chan struct{}

	// writeMu serializes frame writes; gorilla/fasthttp conns allow one
	// concurrent writer only.
	writeMu sync.Mutex

	// subMu guards the per-session subscription state below.
	subMu          sync.Mutex
	channels       map[uint]struct{}
	presenceFilter map[uint]struct{}
	viewingChannel uint
	visible        bool
}

// Hub is the change-feed transport: it tracks connected clients, their
// channel and presence subscriptions, and fans filtered events out to them.
type Hub struct {
	clients      map[uint]*ClientConnection
	clientsMux   sync.RWMutex
	pingInterval time.Duration
	pongTimeout  time.Duration
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	hub := &Hub{
		clients:      make(map[uint]*ClientConnection),
		pingInterval: 30 * time.Second,
		pongTimeout:  90 * time.Second,
	}

	go hub.connectionHealthChecker()

	return hub
}

// Register adds a client connection with health monitoring
func (h *Hub) Register(userID uint, conn *websocket.Conn, supportsGzip bool) *ClientConnection {
	client := &ClientConnection{
		Conn:           conn,
		UserID:         userID,
		LastPong:       time.Now(),
		SupportsGzip:   supportsGzip,
		PingTicker:     time.NewTicker(h.pingInterval),
		CloseChan:      make(chan struct{}),
		channels:       make(map[uint]struct{}),
		presenceFilter: make(map[uint]struct{}),
		visible:        true,
	}

	conn.SetPongHandler(func(appData string) error {
		h.clientsMux.Lock()
		if c, exists := h.clients[userID]; exists {
			c.LastPong = time.Now()
		}
		h.clientsMux.Unlock()
		conn.SetReadDeadline(time.Now().Add(h.pongTimeout))
		return nil
	})
	conn.SetReadDeadline(time.Now().Add(h.pongTimeout))

	h.clientsMux.Lock()
	// Last-write-wins per user: a newer connection replaces the old one.
	if old, exists := h.clients[userID]; exists {
		old.PingTicker.Stop()
		close(old.CloseChan)
	}
	h.clients[userID] = client
	count := len(h.clients)
	h.clientsMux.Unlock()

	go h.pingRoutine(client)

	log.Printf("User %d connected to feed (total: %d, gzip: %v)", userID, count, supportsGzip)
	return client
}

// Unregister removes whatever connection the user currently has.
func (h *Hub) Unregister(userID uint) {
	h.clientsMux.Lock()
	if client, exists := h.clients[userID]; exists {
		client.PingTicker.Stop()
		close(client.CloseChan)
		delete(h.clients, userID)
	}
	count := len(h.clients)
	h.clientsMux.Unlock()
	log.Printf("User %d disconnected from feed (total: %d)", userID, count)
}

// UnregisterClient removes exactly this connection and reports whether it
// was still the user's current one. A reader whose connection was already
// replaced by a reconnect gets false and must not tear down the fresh
// session's state.
func (h *Hub) UnregisterClient(client *ClientConnection) bool {
	h.clientsMux.Lock()
	current, exists := h.clients[client.UserID]
	if !exists || current != client {
		h.clientsMux.Unlock()
		return false
	}
	client.PingTicker.Stop()
	close(client.CloseChan)
	delete(h.clients, client.UserID)
	count := len(h.clients)
	h.clientsMux.Unlock()
	log.Printf("User %d disconnected from feed (total: %d)", client.UserID, count)
	return true
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}

// WriteJSON marshals v and writes it as one text frame under writeMu, so
// reader-goroutine replies never interleave with hub broadcasts or pings.
func (c *ClientConnection) WriteJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(v)
}

// SubscribeChannel adds channelID to the client's channel-scoped streams.
func (c *ClientConnection) SubscribeChannel(channelID uint) {
	c.subMu.Lock()
	c.channels[channelID] = struct{}{}
	c.viewingChannel = channelID
	c.subMu.Unlock()
}

// UnsubscribeChannel removes channelID from the client's streams.
func (c *ClientConnection) UnsubscribeChannel(channelID uint) {
	c.subMu.Lock()
	delete(c.channels, channelID)
	if c.viewingChannel == channelID {
		c.viewingChannel = 0
	}
	c.subMu.Unlock()
}

// SubscribedTo reports whether the client listens to channelID.
func (c *ClientConnection) SubscribedTo(channelID uint) bool {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	_, ok := c.channels[channelID]
	return ok
}

// SubscribedChannels snapshots the client's channel subscriptions.
func (c *ClientConnection) SubscribedChannels() []uint {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	out := make([]uint, 0, len(c.channels))
	for id := range c.channels {
		out = append(out, id)
	}
	return out
}

// SetPresenceFilter replaces the set of user ids whose presence events the
// client wants.
func (c *ClientConnection) SetPresenceFilter(userIDs []uint) {
	filter := make(map[uint]struct{}, len(userIDs))
	for _, id := range userIDs {
		filter[id] = struct{}{}
	}
	c.subMu.Lock()
	c.presenceFilter = filter
	c.subMu.Unlock()
}

// WatchesPresence reports whether the client's filter contains userID.
func (c *ClientConnection) WatchesPresence(userID uint) bool {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	_, ok := c.presenceFilter[userID]
	return ok
}

// SetVisibility records whether the client's view is foreground.
func (c *ClientConnection) SetVisibility(visible bool) {
	c.subMu.Lock()
	c.visible = visible
	c.subMu.Unlock()
}

// ViewingChannel reports the channel the client has foreground, or 0.
func (c *ClientConnection) ViewingChannel() (uint, bool) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if !c.visible {
		return 0, false
	}
	return c.viewingChannel, c.viewingChannel != 0
}

// IsViewing reports whether the client is actively looking at channelID:
// subscribed, foreground, and focused on that channel.
func (h *Hub) IsViewing(userID, channelID uint) bool {
	h.clientsMux.RLock()
	client, exists := h.clients[userID]
	h.clientsMux.RUnlock()
	if !exists {
		return false
	}
	viewing, ok := client.ViewingChannel()
	return ok && viewing == channelID
}

// SendToUser sends one event to a specific user, if connected.
func (h *Hub) SendToUser(userID uint, data interface{}) error {
	h.clientsMux.RLock()
	client, exists := h.clients[userID]
	h.clientsMux.RUnlock()
	if !exists {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling event for user %d: %v", userID, err)
		return err
	}
	return h.send(client, jsonData)
}

// PublishToChannel fans an event out to every client subscribed to the
// channel, skipping excludeUserID (0 skips nobody). Used for self-filtered
// streams like typing, where a user must not see their own signal echoed.
func (h *Hub) PublishToChannel(channelID, excludeUserID uint, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling channel event: %v", err)
		return
	}

	for _, client := range h.snapshot() {
		if client.UserID == excludeUserID {
			continue
		}
		if !client.SubscribedTo(channelID) {
			continue
		}
		if err := h.send(client, jsonData); err != nil {
			log.Printf("Error sending to user %d: %v", client.UserID, err)
		}
	}
}

// PublishPresence fans a presence event for subjectID out to every client
// whose presence filter includes that user.
func (h *Hub) PublishPresence(subjectID uint, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling presence event: %v", err)
		return
	}

	for _, client := range h.snapshot() {
		if !client.WatchesPresence(subjectID) {
			continue
		}
		if err := h.send(client, jsonData); err != nil {
			log.Printf("Error sending presence to user %d: %v", client.UserID, err)
		}
	}
}

func (h *Hub) snapshot() []*ClientConnection {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	clients := make([]*ClientConnection, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}

// send writes one frame, compressing large payloads for clients that
// negotiated gzip.
func (h *Hub) send(client *ClientConnection, jsonData []byte) error {
	finalData := jsonData
	frameType := websocket.TextMessage
	if client.SupportsGzip && len(jsonData) > 512 {
		if compressed, err := CompressMessage(jsonData); err == nil && len(compressed) < len(jsonData) {
			finalData = compressed
			frameType = websocket.BinaryMessage
		}
	}

	client.writeMu.Lock()
	err := client.Conn.WriteMessage(frameType, finalData)
	client.writeMu.Unlock()
	if err != nil {
		h.UnregisterClient(client)
	}
	return err
}

// pingRoutine sends periodic ping messages to keep connection alive
func (h *Hub) pingRoutine(client *ClientConnection) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Ping routine recovered from panic for user %d: %v", client.UserID, r)
		}
	}()

	for {
		select {
		case <-client.CloseChan:
			return
		case <-client.PingTicker.C:
			client.writeMu.Lock()
			err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second))
			client.writeMu.Unlock()
			if err != nil {
				log.Printf("Ping failed for user %d: %v", client.UserID, err)
				h.UnregisterClient(client)
				return
			}
		}
	}
}

// connectionHealthChecker removes connections that stopped answering pings
func (h *Hub) connectionHealthChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		h.clientsMux.RLock()
		deadConnections := make([]uint, 0)
		now := time.Now()

		for userID, client := range h.clients {
			if now.Sub(client.LastPong) > h.pongTimeout {
				deadConnections = append(deadConnections, userID)
			}
		}
		h.clientsMux.RUnlock()

		for _, userID := range deadConnections {
			log.Printf("Removing dead connection for user %d (no pong received)", userID)
			h.Unregister(userID)
		}
	}
}
