package service

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tieubaoca/docchat-be/database"
	"github.com/tieubaoca/docchat-be/types"
)

type WebSocketService struct {
	rag       *RAGService
	chatStore database.ChatStore
	upgrader  websocket.Upgrader
}

func NewWebSocketService(rag *RAGService, chatStore database.ChatStore) *WebSocketService {
	return &WebSocketService{
		rag:       rag,
		chatStore: chatStore,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	// Set connection properties
	conn.SetReadLimit(512 * 1024) // 512KB max message size
	conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
		return nil
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			s.writeError(conn, "Error processing message")
			log.Println("Unmarshal error:", err)
			continue
		}

		switch req.Type {
		case types.TypeWebsocketChat:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				s.writeError(conn, "Error processing message")
				continue
			}
			var payload types.WebSocketChatPayload
			if err := json.Unmarshal(payloadBytes, &payload); err != nil {
				s.writeError(conn, "Error processing message")
				log.Println("Unmarshal error:", err)
				continue
			}
			s.streamAnswer(ctx, conn, payload)

		case types.TypeWebsocketPing:
			pongRes := types.WebSocketResponse{
				Type: types.TypeWebsocketPong,
			}
			if err := conn.WriteJSON(pongRes); err != nil {
				log.Println("Write error:", err)
			}

		default:
			log.Println("Invalid message type:", req.Type)
		}
	}
}

// streamAnswer runs one chat turn, forwarding answer fragments as they
// arrive. On failure the client receives an error message in place of a
// partial answer.
func (s *WebSocketService) streamAnswer(ctx context.Context, conn *websocket.Conn, payload types.WebSocketChatPayload) {
	s.recordMessage(ctx, payload.ChatId, "user", payload.Message)

	var answer string
	err := s.rag.QueryStream(ctx, payload.Message, payload.History, func(fragment string) {
		answer += fragment
		res := types.WebSocketResponse{
			Type:    types.TypeWebsocketChat,
			Payload: types.WebSocketChatDelta{Delta: fragment},
		}
		if err := conn.WriteJSON(res); err != nil {
			log.Println("Write error:", err)
		}
	})
	if err != nil {
		log.Println("Generation error:", err)
		s.writeError(conn, "Failed to generate answer")
		return
	}

	done := types.WebSocketResponse{
		Type: types.TypeWebsocketDone,
	}
	if err := conn.WriteJSON(done); err != nil {
		log.Println("Write error:", err)
	}

	s.recordMessage(ctx, payload.ChatId, "assistant", answer)
}

// recordMessage persists one chat turn. History persistence is
// best-effort and never fails the chat.
func (s *WebSocketService) recordMessage(ctx context.Context, chatID, role, content string) {
	if s.chatStore == nil || chatID == "" {
		return
	}
	err := s.chatStore.CreateMessage(ctx, &database.Message{
		ChatID:  chatID,
		Role:    role,
		Content: content,
	})
	if err != nil {
		log.Printf("Warning: failed to persist chat message: %v", err)
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	res := types.WebSocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.WebSocketErrorResponse{Message: message},
	}
	if err := conn.WriteJSON(res); err != nil {
		log.Println("Write error:", err)
	}
}

func (s *WebSocketService) Health() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}
