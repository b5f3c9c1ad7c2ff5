package types

const (
	TypeWebsocketPing  = "ping"
	TypeWebsocketPong  = "pong"
	TypeWebsocketChat  = "chat"
	TypeWebsocketDone  = "done"
	TypeWebsocketError = "error"
)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketChatPayload struct {
	ChatId   string    `json:"chat_id"`
	Message  string    `json:"message"`
	History  []Message `json:"history,omitempty"`
	Document string    `json:"document,omitempty"`
}

type WebSocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WebSocketChatDelta carries one streamed answer fragment. Concatenating
// the deltas of a turn in emission order yields the complete answer.
type WebSocketChatDelta struct {
	Delta string `json:"delta"`
}

type WebSocketErrorResponse struct {
	Message string `json:"message"`
}

// Message represents a single message in the conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Handle stream responses
type StreamHandler func(fragment string)
