package handlers

import (
	"log"
	"os"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/handlers/ws"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/service"
	"github.com/gofiber/websocket/v2"
)

type WebSocketHandler struct {
	channelService  *service.ChannelService
	messageService  *service.MessageService
	presenceService *service.PresenceService
	typingService   *service.TypingService
	directory       *service.DirectoryService
	hub             *ws.Hub
	broadcast       *ws.Broadcaster
}

func NewWebSocketHandler(
	channelService *service.ChannelService,
	messageService *service.MessageService,
	presenceService *service.PresenceService,
	typingService *service.TypingService,
	directory *service.DirectoryService,
) *WebSocketHandler {
	hub := ws.NewHub()
	return &WebSocketHandler{
		channelService:  channelService,
		messageService:  messageService,
		presenceService: presenceService,
		typingService:   typingService,
		directory:       directory,
		hub:             hub,
		broadcast:       ws.NewBroadcaster(hub, directory),
	}
}

// GetBroadcaster returns the shared fan-out helper for the REST handlers.
func (h *WebSocketHandler) GetBroadcaster() *ws.Broadcaster {
	return h.broadcast
}

// ConnectedClients reports how many live feed sessions the hub holds.
func (h *WebSocketHandler) ConnectedClients() int {
	return h.hub.Count()
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID := c.Locals("userID").(uint)
	wsDebug := os.Getenv("WS_DEBUG") == "true"

	// Check if client supports gzip compression (via query param or header)
	supportsGzip := c.Query("gzip") == "1" || c.Headers("X-Supports-Gzip") == "1"

	client := h.hub.Register(userID, c, supportsGzip)

	// Connecting to the feed counts as a visibility gain.
	if presence, err := h.presenceService.VisibilityGained(userID); err != nil {
		log.Printf("Failed to set user %d online: %v", userID, err)
	} else {
		h.broadcast.PresenceChanged(h.presenceService.Response(presence))
	}

	// Scoped resource release: whatever path ends the session, the typing
	// rows are cleared, presence goes offline and the connection leaves
	// the hub. When a reconnect already replaced this connection, only the
	// reader exits; the fresh session's hub entry and presence stay put.
	defer func() {
		channels := client.SubscribedChannels()
		if !h.hub.UnregisterClient(client) {
			return
		}

		if n, err := h.typingService.ClearAllForUser(userID); err != nil {
			log.Printf("Failed to clear typing rows for user %d: %v", userID, err)
		} else if n > 0 {
			for _, channelID := range channels {
				h.broadcast.TypingCleared(channelID, userID)
			}
		}

		if presence, err := h.presenceService.Teardown(userID); err != nil {
			log.Printf("Failed to set user %d offline: %v", userID, err)
		} else {
			h.broadcast.PresenceChanged(h.presenceService.Response(presence))
		}
	}()

	log.Printf("User %d connected via WebSocket", userID)

	ctx := &ws.MessageContext{
		UserID:    userID,
		Client:    client,
		Hub:       h.hub,
		Broadcast: h.broadcast,
		Channels:  h.channelService,
		Messages:  h.messageService,
		Presence:  h.presenceService,
		Typing:    h.typingService,
		Directory: h.directory,
	}

	// Handle incoming messages
	for {
		messageType, messageBytes, err := c.ReadMessage()
		if err != nil {
			log.Printf("Error reading message from user %d: %v", userID, err)
			break
		}

		if wsDebug {
			log.Printf("ws_recv user_id=%d frame_type=%d size=%d", userID, messageType, len(messageBytes))
		}

		// Decompress if binary message (gzip compressed)
		if messageType == websocket.BinaryMessage {
			decompressed, err := ws.DecompressMessage(messageBytes)
			if err != nil {
				log.Printf("Error decompressing message from user %d: %v", userID, err)
				ws.SendError(client, "decompression_failed", "Failed to decompress message", err.Error())
				continue
			}
			messageBytes = decompressed
		}

		// Deserialize message
		msg, err := ws.Deserialize(messageBytes)
		if err != nil {
			log.Printf("Error deserializing message from user %d: %v", userID, err)
			ws.SendError(client, "invalid_message", "Invalid message format", err.Error())
			continue
		}

		// Process message
		if err := msg.Process(ctx); err != nil {
			log.Printf("Error processing message %s from user %d: %v", msg.GetType(), userID, err)
			ws.SendError(client, "processing_failed", "Failed to process message", err.Error())
		}
	}

	log.Printf("User %d disconnected from WebSocket", userID)
}
