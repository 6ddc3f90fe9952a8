package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iamvkosarev/reply-genie-bot/config"
	"github.com/iamvkosarev/reply-genie-bot/internal/prompt"
	"github.com/sashabaranov/go-openai"
)

func newFakeOpenAI(t *testing.T, handler http.HandlerFunc) config.OpenAI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return config.OpenAI{
		OpenAIAPIKey:     "sk-test",
		OpenAIModel:      "gpt-3.5-turbo",
		OpenAIBaseURL:    srv.URL,
		ModelTemperature: 0.7,
		RequestTimeout:   5 * time.Second,
		MaxPromptTokens:  3500,
	}
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-3.5-turbo",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			},
		},
	})
}

func TestOpenAIUsecase_CompleteSendsRequest(t *testing.T) {
	var got openai.ChatCompletionRequest
	cfg := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		writeCompletion(w, `["a","b","c"]`)
	})

	uc, err := NewOpenAIUsecase(cfg)
	if err != nil {
		t.Fatalf("NewOpenAIUsecase failed: %v", err)
	}
	content, err := uc.Complete(context.Background(), prompt.Prompt{System: "sys", User: "usr"}, 250)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if content != `["a","b","c"]` {
		t.Errorf("unexpected content %q", content)
	}

	if got.Model != "gpt-3.5-turbo" {
		t.Errorf("expected model gpt-3.5-turbo, got %s", got.Model)
	}
	if got.MaxTokens != 250 {
		t.Errorf("expected max tokens 250, got %d", got.MaxTokens)
	}
	if got.Temperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", got.Temperature)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.Messages))
	}
	if got.Messages[0].Role != openai.ChatMessageRoleSystem || got.Messages[0].Content != "sys" {
		t.Errorf("unexpected system message %+v", got.Messages[0])
	}
	if got.Messages[1].Role != openai.ChatMessageRoleUser || got.Messages[1].Content != "usr" {
		t.Errorf("unexpected user message %+v", got.Messages[1])
	}
}

func TestOpenAIUsecase_NonSuccessStatusIsError(t *testing.T) {
	cfg := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})

	uc, err := NewOpenAIUsecase(cfg)
	if err != nil {
		t.Fatalf("NewOpenAIUsecase failed: %v", err)
	}
	if _, err = uc.Complete(context.Background(), prompt.Prompt{System: "s", User: "u"}, 100); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestOpenAIUsecase_EmptyContentIsError(t *testing.T) {
	cfg := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(w, "")
	})

	uc, err := NewOpenAIUsecase(cfg)
	if err != nil {
		t.Fatalf("NewOpenAIUsecase failed: %v", err)
	}
	_, err = uc.Complete(context.Background(), prompt.Prompt{System: "s", User: "u"}, 100)
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

type stubClient struct {
	resp openai.ChatCompletionResponse
	err  error
}

func (s stubClient) CreateChatCompletion(
	context.Context, openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {
	return s.resp, s.err
}

func TestOpenAIUsecase_NoChoicesIsError(t *testing.T) {
	uc := NewOpenAIUsecaseWithClient(config.OpenAI{OpenAIModel: "gpt-3.5-turbo"}, stubClient{})
	_, err := uc.Complete(context.Background(), prompt.Prompt{}, 100)
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestOpenAIUsecase_BlankContentIsReturned(t *testing.T) {
	resp := openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "  \n "}},
		},
	}
	uc := NewOpenAIUsecaseWithClient(config.OpenAI{OpenAIModel: "gpt-3.5-turbo"}, stubClient{resp: resp})
	content, err := uc.Complete(context.Background(), prompt.Prompt{}, 100)
	if err != nil {
		t.Fatalf("blank content must not be an error, got %v", err)
	}
	if content != "  \n " {
		t.Errorf("unexpected content %q", content)
	}
}
