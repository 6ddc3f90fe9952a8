package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iamvkosarev/reply-genie-bot/config"
	"github.com/iamvkosarev/reply-genie-bot/internal/prompt"
	in_memory "github.com/iamvkosarev/reply-genie-bot/internal/storage/in-memory"
	"github.com/iamvkosarev/reply-genie-bot/internal/usecase"
	"github.com/sashabaranov/go-openai"
)

type stubCompleter struct {
	raw string
	err error
}

func (s stubCompleter) Complete(context.Context, prompt.Prompt, int) (string, error) {
	return s.raw, s.err
}

func newTestServer(t *testing.T, completer usecase.Completer, apiKey string) *Server {
	t.Helper()
	cfg := config.OpenAI{
		OpenAIAPIKey:     apiKey,
		OpenAIModel:      "gpt-3.5-turbo",
		ModelTemperature: 0.7,
		MaxPromptTokens:  3500,
	}
	replies := usecase.NewReplyUsecase(cfg, usecase.ReplyUsecaseDeps{
		Completer: completer,
		CountTokens: func([]openai.ChatCompletionMessage, string) (int, error) {
			return 10, nil
		},
	})
	drafts := usecase.NewDraftUsecase(usecase.DraftUsecaseDeps{
		DraftStorage: in_memory.NewDraftStorage(),
		Generator:    replies,
	})
	return NewServer(8080, cfg, ServerDeps{Replies: replies, Drafts: drafts})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, stubCompleter{}, "sk-test")
	w := do(t, srv, "GET", "/health", "")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	tests := []struct {
		key    string
		status string
	}{
		{key: "sk-test", status: config.KeyStatusDetected},
		{key: "abc", status: config.KeyStatusInvalid},
		{key: "", status: config.KeyStatusMissing},
	}
	for _, tt := range tests {
		srv := newTestServer(t, stubCompleter{}, tt.key)
		w := do(t, srv, "GET", "/api/v1/status", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body["api_key_status"] != tt.status {
			t.Errorf("key %q: expected %q, got %v", tt.key, tt.status, body["api_key_status"])
		}
	}
}

func TestNotFoundEndpoint(t *testing.T) {
	srv := newTestServer(t, stubCompleter{}, "sk-test")
	w := do(t, srv, "GET", "/nonexistent", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, stubCompleter{}, "sk-test")
	w := do(t, srv, "OPTIONS", "/api/v1/replies", "")
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing CORS header")
	}
}

func TestGenerateReplies(t *testing.T) {
	srv := newTestServer(t, stubCompleter{raw: "1. First reply\n2. Second reply\n3. Third reply"}, "sk-test")
	body := `{"mode":"reply","history":[{"sender":"other","content":"are you free later?"}],"tone":"chill","length":"short"}`
	w := do(t, srv, "POST", "/api/v1/replies", body)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp RepliesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	want := []string{"First reply", "Second reply", "Third reply"}
	if len(resp.Replies) != 3 {
		t.Fatalf("expected 3 replies, got %v", resp.Replies)
	}
	for i := range want {
		if resp.Replies[i] != want[i] {
			t.Errorf("reply %d: expected %q, got %q", i, want[i], resp.Replies[i])
		}
	}
}

func TestGenerateReplies_Errors(t *testing.T) {
	tests := []struct {
		name      string
		completer stubCompleter
		body      string
		code      int
	}{
		{
			name: "empty history",
			body: `{"mode":"reply","history":[]}`,
			code: http.StatusBadRequest,
		},
		{
			name: "blank intent",
			body: `{"mode":"start","initial_message_context":"  "}`,
			code: http.StatusBadRequest,
		},
		{
			name: "custom tone without phrase",
			body: `{"history":[{"sender":"other","content":"hi"}],"tone":"custom"}`,
			code: http.StatusBadRequest,
		},
		{
			name: "unknown tone",
			body: `{"history":[{"sender":"other","content":"hi"}],"tone":"grumpy"}`,
			code: http.StatusBadRequest,
		},
		{
			name: "malformed json",
			body: `{"history":`,
			code: http.StatusBadRequest,
		},
		{
			name:      "upstream failure",
			completer: stubCompleter{err: errors.New("status code: 500")},
			body:      `{"history":[{"sender":"other","content":"hi"}]}`,
			code:      http.StatusBadGateway,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.completer, "sk-test")
			w := do(t, srv, "POST", "/api/v1/replies", tt.body)
			if w.Code != tt.code {
				t.Errorf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestGenerateReplies_Placeholder(t *testing.T) {
	srv := newTestServer(t, nil, "")
	body := `{"history":[{"sender":"other","content":"hi"}],"tone":"kind"}`
	w := do(t, srv, "POST", "/api/v1/replies", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp RepliesResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if !resp.Placeholder || len(resp.Replies) != 3 || !strings.HasPrefix(resp.Replies[0], "[No API Key]") {
		t.Errorf("unexpected placeholder response %+v", resp)
	}
}

func TestDraftLifecycle(t *testing.T) {
	srv := newTestServer(t, stubCompleter{raw: `["Yes!", "No.", "Maybe?"]`}, "sk-test")

	w := do(t, srv, "POST", "/api/v1/drafts", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var draft DraftResponse
	json.NewDecoder(w.Body).Decode(&draft)
	if draft.Mode != "reply" || draft.Tone != "natural" || draft.Length != "medium" || draft.MessageType != "text" {
		t.Errorf("unexpected defaults %+v", draft)
	}
	base := "/api/v1/drafts/" + draft.ID

	w = do(t, srv, "POST", base+"/replies", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("generation without history: expected 400, got %d", w.Code)
	}

	w = do(t, srv, "POST", base+"/messages", `{"sender":"other","content":"party on saturday?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("add message: expected 200, got %d", w.Code)
	}
	w = do(t, srv, "POST", base+"/messages", `{"sender":"me","content":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank message: expected 400, got %d", w.Code)
	}

	w = do(t, srv, "PATCH", base, `{"tone":"custom","custom_tone":"dry and sarcastic","length":"short","recipient":"Jo"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	json.NewDecoder(w.Body).Decode(&draft)
	if draft.Tone != "custom" || draft.CustomTone != "dry and sarcastic" || draft.Length != "short" || draft.Recipient != "Jo" {
		t.Errorf("unexpected settings %+v", draft)
	}

	w = do(t, srv, "POST", base+"/replies", "")
	if w.Code != http.StatusOK {
		t.Fatalf("generate: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var gen DraftRepliesResponse
	json.NewDecoder(w.Body).Decode(&gen)
	if len(gen.Replies) != 3 || len(gen.Draft.Replies) != 3 || gen.Draft.Replies[0].Text != "Yes!" {
		t.Errorf("unexpected generation response %+v", gen)
	}

	w = do(t, srv, "DELETE", base+"/messages/3", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("remove out of range: expected 400, got %d", w.Code)
	}
	w = do(t, srv, "DELETE", base+"/messages/0", "")
	if w.Code != http.StatusOK {
		t.Fatalf("remove: expected 200, got %d", w.Code)
	}
	json.NewDecoder(w.Body).Decode(&draft)
	if len(draft.History) != 0 || len(draft.Replies) != 0 {
		t.Errorf("removing the last message must clear replies %+v", draft)
	}

	w = do(t, srv, "POST", base+"/reset", "")
	if w.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d", w.Code)
	}
	json.NewDecoder(w.Body).Decode(&draft)
	if draft.Tone != "natural" || draft.Length != "short" || draft.Recipient != "" {
		t.Errorf("unexpected draft after reset %+v", draft)
	}

	w = do(t, srv, "GET", base, "")
	if w.Code != http.StatusOK {
		t.Errorf("get: expected 200, got %d", w.Code)
	}
}

func TestDraftNotFound(t *testing.T) {
	srv := newTestServer(t, stubCompleter{}, "sk-test")

	w := do(t, srv, "GET", "/api/v1/drafts/6a1f1f36-55a4-4a44-9a55-0e4c0c9cf001", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	w = do(t, srv, "GET", "/api/v1/drafts/not-a-uuid", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

type recordingCompleter struct {
	prompts []prompt.Prompt
}

func (r *recordingCompleter) Complete(_ context.Context, p prompt.Prompt, _ int) (string, error) {
	r.prompts = append(r.prompts, p)
	return `["a","b","c"]`, nil
}

func TestGenerateReplies_BlankRecipientUsesGenericLabel(t *testing.T) {
	completer := &recordingCompleter{}
	srv := newTestServer(t, completer, "sk-test")
	body := `{"history":[{"sender":"other","content":"hi"}],"recipient":"   ","additional_context":"  "}`
	w := do(t, srv, "POST", "/api/v1/replies", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(completer.prompts) != 1 {
		t.Fatalf("expected one completion, got %d", len(completer.prompts))
	}
	user := completer.prompts[0].User
	if !strings.Contains(user, `Other person: "hi"`) {
		t.Errorf("blank recipient must fall back to the generic label: %s", user)
	}
	if strings.Contains(user, "Additional context") {
		t.Errorf("blank context must not produce a context block: %s", user)
	}
}
