package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iamvkosarev/reply-genie-bot/config"
	"github.com/iamvkosarev/reply-genie-bot/internal/events"
	"github.com/iamvkosarev/reply-genie-bot/internal/model"
	"github.com/iamvkosarev/reply-genie-bot/internal/prompt"
	"github.com/iamvkosarev/reply-genie-bot/internal/reply"
	openai_tools "github.com/iamvkosarev/reply-genie-bot/pkg/openai-tools"
	"github.com/sashabaranov/go-openai"
)

const (
	placeholderToneFormat = `[No API Key] This would be a %s response to: "%s"`
	placeholderAddKey     = "[No API Key] Please add a valid OpenAI API key to your .env file"
	placeholderSetKey     = "[No API Key] Set OPENAI_API_KEY=your_api_key in .env"
)

type Completer interface {
	Complete(ctx context.Context, p prompt.Prompt, maxTokens int) (string, error)
}

type TokenCounter func(messages []openai.ChatCompletionMessage, model string) (int, error)

type ReplyUsecaseDeps struct {
	Completer   Completer
	Composer    *prompt.Composer
	Publisher   events.Publisher
	CountTokens TokenCounter
	Logger      *slog.Logger
}

type GenerationResult struct {
	Replies        []string
	Placeholder    bool
	ContextTrimmed bool
}

type ReplyUsecase struct {
	ReplyUsecaseDeps
	cfg config.OpenAI
}

func NewReplyUsecase(cfg config.OpenAI, deps ReplyUsecaseDeps) *ReplyUsecase {
	if deps.Composer == nil {
		deps.Composer = prompt.NewComposer(nil)
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	if deps.CountTokens == nil {
		deps.CountTokens = openai_tools.CountToken
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &ReplyUsecase{
		ReplyUsecaseDeps: deps,
		cfg:              cfg,
	}
}

// Generate turns a request into exactly reply.Count suggestions. Validation
// errors come back before any network activity; without a credential the
// placeholder replies are returned instead of calling the service.
func (r *ReplyUsecase) Generate(ctx context.Context, req model.GenerationRequest) (GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return GenerationResult{}, err
	}
	start := time.Now()

	if !r.cfg.HasKey() || r.Completer == nil {
		result := GenerationResult{
			Replies:     placeholderReplies(req),
			Placeholder: true,
		}
		r.publish(req, result, time.Since(start))
		return result, nil
	}

	p, trimmed, err := r.composeWithinBudget(req)
	if err != nil {
		return GenerationResult{}, err
	}

	raw, err := r.Completer.Complete(ctx, p, req.Length.MaxTokens())
	if err != nil {
		return GenerationResult{}, fmt.Errorf("failed to generate replies: %w", err)
	}

	result := GenerationResult{
		Replies:        reply.Extract(raw, req.Length),
		ContextTrimmed: trimmed,
	}
	r.Logger.Debug(
		"replies generated",
		"mode", req.Mode, "tone", req.Tone, "length", req.Length, "trimmed", trimmed,
	)
	r.publish(req, result, time.Since(start))
	return result, nil
}

// composeWithinBudget drops the oldest history entries from the prompt copy
// while it does not fit the token ceiling. At least one entry always stays.
func (r *ReplyUsecase) composeWithinBudget(req model.GenerationRequest) (prompt.Prompt, bool, error) {
	p, err := r.Composer.Compose(req)
	if err != nil {
		return prompt.Prompt{}, false, err
	}

	var trimmed bool
	history := req.History
	for len(history) > 1 {
		tokenCount, err := r.CountTokens(ChatMessages(p), r.cfg.OpenAIModel)
		if err != nil {
			r.Logger.Warn("failed to count prompt tokens", "error", err)
			break
		}
		if tokenCount < r.cfg.MaxPromptTokens {
			break
		}
		history = history[1:]
		trimmed = true
		if p, err = r.Composer.Compose(req.WithHistory(history)); err != nil {
			return prompt.Prompt{}, false, err
		}
	}
	if trimmed {
		r.Logger.Info("history trimmed due to token limit", "kept", len(history), "total", len(req.History))
	}
	return p, trimmed, nil
}

func (r *ReplyUsecase) publish(req model.GenerationRequest, result GenerationResult, took time.Duration) {
	event := events.NewGenerationEvent(req, len(result.Replies), result.Placeholder, result.ContextTrimmed, took)
	if err := r.Publisher.Publish(events.SubjectRepliesGenerated, event); err != nil {
		r.Logger.Warn("failed to publish generation event", "error", err)
	}
}

func placeholderReplies(req model.GenerationRequest) []string {
	tone := string(req.Tone)
	if req.Tone == model.ToneCustom {
		tone = req.CustomTone
	}
	answered := req.LastMessage()
	if req.Mode == model.ModeStart {
		answered = req.InitialMessageContext
	}
	return []string{
		fmt.Sprintf(placeholderToneFormat, tone, answered),
		placeholderAddKey,
		placeholderSetKey,
	}
}
