package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"
	"github.com/tieubaoca/docchat-be/types"
)

var SystemMessageDocumentAssistant = openai.ChatCompletionMessage{
	Role:    openai.ChatMessageRoleSystem,
	Content: "You are a helpful assistant that answers questions about uploaded documents. Use only the provided context to answer. When the context does not contain the answer, say so instead of guessing.",
}

const summarySystemPrompt = `You are creating a searchable description for document content retrieval.
Generate a comprehensive, searchable description that covers:
1. Key facts, numbers, and data points from text and tables
2. Main topics and concepts discussed
3. Questions this content could answer
4. Visual content analysis (charts, diagrams, patterns in images)
5. Alternative search terms users might use
Make it detailed and searchable - prioritize findability over brevity.`

type OpenAIService struct {
	client         *openai.Client
	model          string
	embeddingModel string
	summaryModel   string
}

var (
	_ AIService  = (*OpenAIService)(nil)
	_ Embedder   = (*OpenAIService)(nil)
	_ Summarizer = (*OpenAIService)(nil)
)

func NewOpenAIService(baseURL, apiKey, model, embeddingModel, summaryModel string) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL // Set this to your local LLM server URL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAIService{
		client:         client,
		model:          model,
		embeddingModel: embeddingModel,
		summaryModel:   summaryModel,
	}
}

// Generate produces a complete answer for the prompt. No partial answer
// is returned on failure.
func (s *OpenAIService) Generate(ctx context.Context, prompt string, history []types.Message) (string, error) {
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Messages: s.buildMessages(prompt, history),
			Model:    s.model,
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response generated")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateStream feeds answer fragments to the handler as the model
// emits them. The concatenation of all fragments equals the answer the
// non-streaming path would return. Cancelling ctx stops emission.
func (s *OpenAIService) GenerateStream(ctx context.Context, prompt string, history []types.Message, handler types.StreamHandler) error {
	stream, err := s.client.CreateChatCompletionStream(
		ctx,
		openai.ChatCompletionRequest{
			Messages: s.buildMessages(prompt, history),
			Model:    s.model,
		},
	)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			handler(delta)
		}
	}
}

// Embed converts texts into embedding vectors, one per input, in order.
func (s *OpenAIService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(s.embeddingModel),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("got %d embeddings for %d texts", len(resp.Data), len(texts))
	}
	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

// Summarize asks a multimodal model for a searchable description of the
// chunk, attaching table markup as text and images as data URLs.
func (s *OpenAIService) Summarize(ctx context.Context, content types.ChunkContent) (string, error) {
	var prompt = "TEXT CONTENT:\n" + content.Text + "\n"
	for i, table := range content.Tables {
		prompt += fmt.Sprintf("\nTable %d:\n%s\n", i+1, table)
	}

	parts := []openai.ChatMessagePart{
		{
			Type: openai.ChatMessagePartTypeText,
			Text: prompt,
		},
	}
	for _, image := range content.Images {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL: "data:image/png;base64," + image,
			},
		})
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: summarySystemPrompt,
				},
				{
					Role:         openai.ChatMessageRoleUser,
					MultiContent: parts,
				},
			},
			Model: s.summaryModel,
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no summary generated")
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *OpenAIService) buildMessages(prompt string, history []types.Message) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, SystemMessageDocumentAssistant)
	for _, msg := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
	return messages
}
