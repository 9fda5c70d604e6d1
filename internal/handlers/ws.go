package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/dhanush290707/FoodFlow/db"
	"github.com/dhanush290707/FoodFlow/internal/models"
	"github.com/dhanush290707/FoodFlow/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var (
	clients   = make(map[*websocket.Conn]bool)
	clientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// ChangeSignal is the frame every connected dashboard receives after a
// mutation commits. The event name is versioned once ("data_changed", v1);
// the entity/operation fields let clients skip refetches they do not render.
type ChangeSignal struct {
	Type      string `json:"type"`
	Version   int    `json:"version"`
	Entity    string `json:"entity"`
	EntityID  uint   `json:"entity_id"`
	Operation string `json:"operation"`
}

// BroadcastChange persists the signal as a ChangeEvent row and fans it out to
// every connected client. Delivery is fire-and-forget: a client disconnected
// during the broadcast misses it and catches up on its next fetch.
func BroadcastChange(entity string, entityID uint, operation string) {
	signal := ChangeSignal{
		Type:      "data_changed",
		Version:   1,
		Entity:    entity,
		EntityID:  entityID,
		Operation: operation,
	}

	if payload, err := json.Marshal(signal); err == nil {
		event := models.ChangeEvent{
			Entity:    entity,
			EntityID:  entityID,
			Operation: operation,
			Payload:   payload,
		}
		if err := db.DB.Create(&event).Error; err != nil {
			log.Printf("Failed to store change event for %s/%d: %v", entity, entityID, err)
		}
	}

	clientsMu.RLock()
	if len(clients) == 0 {
		clientsMu.RUnlock()
		return
	}

	// Copy the client set so the lock is not held while writing
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	clientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		if err := conn.WriteJSON(signal); err != nil {
			log.Printf("Failed to broadcast change to client: %v", err)
			clientsMu.Lock()
			delete(clients, conn)
			clientsMu.Unlock()
			conn.Close()
		}
	}
}

func WebSocket(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	clientsMu.Lock()
	clients[conn] = true
	clientsMu.Unlock()

	defer func() {
		clientsMu.Lock()
		delete(clients, conn)
		clientsMu.Unlock()
		conn.Close()

		log.Println("WebSocket connection closed")
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":    "connected",
		"message": "WebSocket connection established",
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		// Send pings periodically
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline for ping: %v", err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Ping failed: %v", err)
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline: %v", err)
			break
		}

		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			log.Printf("Received message from client: %s", string(message))
		case websocket.PongMessage:
			log.Println("Received pong from client")
		}
	}
}
