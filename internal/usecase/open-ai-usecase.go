package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/iamvkosarev/reply-genie-bot/config"
	"github.com/iamvkosarev/reply-genie-bot/internal/prompt"
	"github.com/sashabaranov/go-openai"
)

var (
	ErrEmptyCompletion = errors.New("completion service returned no message content")
)

// CompletionClient is the part of the go-openai client the usecase needs.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type OpenAIUsecase struct {
	cfg    config.OpenAI
	client CompletionClient
}

func NewOpenAIUsecase(cfg config.OpenAI) (*OpenAIUsecase, error) {
	baseURL, err := cfg.APIBaseURL()
	if err != nil {
		return nil, fmt.Errorf("failed to build openai base url: %w", err)
	}
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	clientConfig.BaseURL = baseURL
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.RequestTimeout}

	return NewOpenAIUsecaseWithClient(cfg, openai.NewClientWithConfig(clientConfig)), nil
}

func NewOpenAIUsecaseWithClient(cfg config.OpenAI, client CompletionClient) *OpenAIUsecase {
	return &OpenAIUsecase{
		cfg:    cfg,
		client: client,
	}
}

// Complete sends one system and one user message and returns the first
// choice's content. Transport and status errors are returned as they are.
// Only a missing content is an error; blank text is left to the extractor.
func (o *OpenAIUsecase) Complete(ctx context.Context, p prompt.Prompt, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       o.cfg.OpenAIModel,
		Messages:    ChatMessages(p),
		Temperature: o.cfg.ModelTemperature,
		MaxTokens:   maxTokens,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

func ChatMessages(p prompt.Prompt) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: p.System,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: p.User,
		},
	}
}
