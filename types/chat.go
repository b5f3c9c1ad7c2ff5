package types

type ChatRequest struct {
	ChatId   string    `json:"chat_id"`
	Message  string    `json:"message"`
	History  []Message `json:"history,omitempty"`
	Document string    `json:"document,omitempty"`
}

type ChatResponse struct {
	ChatId  string   `json:"chat_id"`
	Message *Message `json:"message"`
}
