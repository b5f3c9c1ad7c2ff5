package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/tieubaoca/docchat-be/database"
	"github.com/tieubaoca/docchat-be/service"
	"github.com/tieubaoca/docchat-be/types"
)

type ChatHandler struct {
	rag       *service.RAGService
	chatStore database.ChatStore
}

func NewChatHandler(rag *service.RAGService, chatStore database.ChatStore) *ChatHandler {
	return &ChatHandler{
		rag:       rag,
		chatStore: chatStore,
	}
}

// HandleChat answers one chat turn in full. Generation failures surface
// as errors; no partial answer is returned.
func (h *ChatHandler) HandleChat() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var chatRequest types.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&chatRequest); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if chatRequest.Message == "" {
			http.Error(w, "Message is required", http.StatusBadRequest)
			return
		}

		answer, err := h.rag.Query(r.Context(), chatRequest.Message, chatRequest.History)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		h.recordTurn(r.Context(), chatRequest.ChatId, chatRequest.Message, answer)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(
			types.DataResponse{
				Status: true,
				Data: types.ChatResponse{
					ChatId: chatRequest.ChatId,
					Message: &types.Message{
						Role:    "assistant",
						Content: answer,
					},
				},
			},
		)
	})
}

// HandleChatHistory returns the persisted messages of a conversation.
func (h *ChatHandler) HandleChatHistory() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if h.chatStore == nil {
			http.Error(w, "Chat history is not configured", http.StatusNotFound)
			return
		}

		chatID := r.URL.Query().Get("chat_id")
		if chatID == "" {
			http.Error(w, "chat_id parameter is required", http.StatusBadRequest)
			return
		}

		messages, err := h.chatStore.GetMessages(r.Context(), chatID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(types.DataResponse{
			Status: true,
			Data:   messages,
		})
	})
}

// recordTurn persists both sides of one turn, best-effort.
func (h *ChatHandler) recordTurn(ctx context.Context, chatID, question, answer string) {
	if h.chatStore == nil || chatID == "" {
		return
	}
	for _, msg := range []database.Message{
		{ChatID: chatID, Role: "user", Content: question},
		{ChatID: chatID, Role: "assistant", Content: answer},
	} {
		m := msg
		if err := h.chatStore.CreateMessage(ctx, &m); err != nil {
			log.Printf("Warning: failed to persist chat message: %v", err)
			return
		}
	}
}
