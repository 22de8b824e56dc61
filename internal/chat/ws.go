package chat

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"dancehub/internal/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type incomingMessage struct {
	Text string `json:"text"`
}

func HistoryHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		floor := strings.TrimSpace(c.Query("floor"))
		if floor == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "floor is required"})
			return
		}

		c.JSON(http.StatusOK, hub.History(floor))
	}
}

func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		floor := strings.TrimSpace(c.Query("floor"))
		if floor == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "floor is required"})
			return
		}

		// A resolved ticket names the dancer; guests dance anonymously.
		dancer := "guest"
		if claims := auth.MustGetClaims(c); claims != nil {
			dancer = claims.Username
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		history := hub.Join(floor, ws, dancer)
		for _, msg := range history {
			_ = ws.WriteJSON(msg)
		}

		for {
			_, payload, err := ws.ReadMessage()
			if err != nil {
				break
			}

			var incoming incomingMessage
			if err := json.Unmarshal(payload, &incoming); err != nil {
				text := strings.TrimSpace(string(payload))
				if text == "" {
					continue
				}
				hub.Broadcast(Message{
					Type:   "message",
					Floor:  floor,
					Dancer: hub.Dancer(floor, ws),
					Text:   text,
					At:     time.Now().UTC(),
				})
				continue
			}

			text := strings.TrimSpace(incoming.Text)
			if text == "" {
				continue
			}

			hub.Broadcast(Message{
				Type:   "message",
				Floor:  floor,
				Dancer: hub.Dancer(floor, ws),
				Text:   text,
				At:     time.Now().UTC(),
			})
		}

		hub.Leave(floor, ws)
	}
}
