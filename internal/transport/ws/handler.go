package ws

import (
	"log"
	"net/http"
	"time"

	"quizagent/internal/service"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// InboundMessage is one user turn over the socket
type InboundMessage struct {
	Message   string `json:"message"`
	PersonaID string `json:"personaId,omitempty"`
}

// Handler serves the chat WebSocket. One connection is one user's
// conversation: each inbound frame goes through the same dialog router
// as the REST path and the AgentResponse comes back as a frame.
type Handler struct {
	chatSvc *service.ChatService
}

// NewHandler creates a new WebSocket handler
func NewHandler(chatSvc *service.ChatService) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// ChatWS handles GET /v1/ws/chat/{userId}
func (h *Handler) ChatWS(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "missing user id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	log.Printf("User %s connected via WebSocket", userID)

	for {
		var inbound InboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error for %s: %v", userID, err)
			}
			return
		}
		if inbound.Message == "" {
			continue
		}

		response, err := h.chatSvc.HandleMessage(r.Context(), userID, inbound.Message, inbound.PersonaID)
		if err != nil {
			h.writeError(conn, err.Error())
			continue
		}

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(response); err != nil {
			log.Printf("WebSocket write error for %s: %v", userID, err)
			return
		}
	}
}

func (h *Handler) writeError(conn *websocket.Conn, message string) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(map[string]string{"error": message}); err != nil {
		log.Printf("WebSocket error write failed: %v", err)
	}
}
