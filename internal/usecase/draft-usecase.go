package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/iamvkosarev/reply-genie-bot/internal/model"
)

type DraftStorage interface {
	CreateDraft(ctx context.Context) (model.Draft, error)
	GetDraft(ctx context.Context, draftID uuid.UUID) (model.Draft, error)
	SaveDraft(ctx context.Context, draft model.Draft) error
	GetDraftIDForTelegramUser(ctx context.Context, telegramID int64) (uuid.UUID, error)
	BindTelegramUser(ctx context.Context, telegramID int64, draftID uuid.UUID) error
}

type Generator interface {
	Generate(ctx context.Context, req model.GenerationRequest) (GenerationResult, error)
}

// DraftSettings is a partial update. Nil fields are left as they are.
type DraftSettings struct {
	Mode                  *model.ConversationMode
	Tone                  *model.Tone
	CustomTone            *string
	MessageType           *model.MessageType
	Length                *model.LengthClass
	Recipient             *string
	AdditionalContext     *string
	InitialMessageContext *string
}

type DraftUsecaseDeps struct {
	DraftStorage DraftStorage
	Generator    Generator
}

type DraftUsecase struct {
	DraftUsecaseDeps
	mu sync.Mutex
}

func NewDraftUsecase(deps DraftUsecaseDeps) *DraftUsecase {
	return &DraftUsecase{
		DraftUsecaseDeps: deps,
	}
}

func (d *DraftUsecase) CreateDraft(ctx context.Context) (model.Draft, error) {
	draft, err := d.DraftStorage.CreateDraft(ctx)
	if err != nil {
		return model.Draft{}, fmt.Errorf("failed to create draft: %w", err)
	}
	return draft, nil
}

func (d *DraftUsecase) GetDraft(ctx context.Context, draftID uuid.UUID) (model.Draft, error) {
	return d.DraftStorage.GetDraft(ctx, draftID)
}

func (d *DraftUsecase) AddMessage(
	ctx context.Context, draftID uuid.UUID, sender model.Sender, content string,
) (model.Draft, error) {
	msg, err := model.NewConversationMessage(sender, content)
	if err != nil {
		return model.Draft{}, err
	}
	return d.update(ctx, draftID, func(draft *model.Draft) error {
		draft.AddMessage(msg)
		return nil
	})
}

func (d *DraftUsecase) RemoveMessage(ctx context.Context, draftID uuid.UUID, index int) (model.Draft, error) {
	return d.update(ctx, draftID, func(draft *model.Draft) error {
		return draft.RemoveMessage(index)
	})
}

// SetTone picks a tone. The custom phrase is only kept for the custom tone.
func (d *DraftUsecase) SetTone(
	ctx context.Context, draftID uuid.UUID, tone model.Tone, customTone string,
) (model.Draft, error) {
	return d.UpdateSettings(ctx, draftID, DraftSettings{Tone: &tone, CustomTone: &customTone})
}

func (d *DraftUsecase) SetLength(ctx context.Context, draftID uuid.UUID, length model.LengthClass) (model.Draft, error) {
	return d.UpdateSettings(ctx, draftID, DraftSettings{Length: &length})
}

func (d *DraftUsecase) SetMode(ctx context.Context, draftID uuid.UUID, mode model.ConversationMode) (model.Draft, error) {
	return d.UpdateSettings(ctx, draftID, DraftSettings{Mode: &mode})
}

func (d *DraftUsecase) SetMessageType(
	ctx context.Context, draftID uuid.UUID, messageType model.MessageType,
) (model.Draft, error) {
	return d.UpdateSettings(ctx, draftID, DraftSettings{MessageType: &messageType})
}

func (d *DraftUsecase) SetRecipient(ctx context.Context, draftID uuid.UUID, recipient string) (model.Draft, error) {
	return d.UpdateSettings(ctx, draftID, DraftSettings{Recipient: &recipient})
}

func (d *DraftUsecase) SetAdditionalContext(
	ctx context.Context, draftID uuid.UUID, additionalContext string,
) (model.Draft, error) {
	return d.UpdateSettings(ctx, draftID, DraftSettings{AdditionalContext: &additionalContext})
}

func (d *DraftUsecase) SetIntent(ctx context.Context, draftID uuid.UUID, intent string) (model.Draft, error) {
	return d.UpdateSettings(ctx, draftID, DraftSettings{InitialMessageContext: &intent})
}

func (d *DraftUsecase) UpdateSettings(
	ctx context.Context, draftID uuid.UUID, settings DraftSettings,
) (model.Draft, error) {
	if err := settings.validate(); err != nil {
		return model.Draft{}, err
	}
	return d.update(ctx, draftID, func(draft *model.Draft) error {
		settings.apply(draft)
		return nil
	})
}

func (d *DraftUsecase) Reset(ctx context.Context, draftID uuid.UUID) (model.Draft, error) {
	return d.update(ctx, draftID, func(draft *model.Draft) error {
		draft.Reset()
		return nil
	})
}

// Generate runs the pipeline on a snapshot of the draft and stores the
// replies. The draft is not locked while the completion is outstanding.
func (d *DraftUsecase) Generate(ctx context.Context, draftID uuid.UUID) (model.Draft, GenerationResult, error) {
	draft, err := d.DraftStorage.GetDraft(ctx, draftID)
	if err != nil {
		return model.Draft{}, GenerationResult{}, err
	}

	result, err := d.Generator.Generate(ctx, draft.Snapshot())
	if err != nil {
		return model.Draft{}, GenerationResult{}, err
	}

	draft, err = d.update(ctx, draftID, func(draft *model.Draft) error {
		draft.Replies = model.NewReplyOptions(result.Replies)
		return nil
	})
	if err != nil {
		return model.Draft{}, GenerationResult{}, err
	}
	return draft, result, nil
}

func (d *DraftUsecase) update(
	ctx context.Context, draftID uuid.UUID, fn func(draft *model.Draft) error,
) (model.Draft, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	draft, err := d.DraftStorage.GetDraft(ctx, draftID)
	if err != nil {
		return model.Draft{}, err
	}
	if err = fn(&draft); err != nil {
		return model.Draft{}, err
	}
	if err = d.DraftStorage.SaveDraft(ctx, draft); err != nil {
		return model.Draft{}, fmt.Errorf("failed to save draft %s: %w", draftID, err)
	}
	return draft, nil
}

func (s DraftSettings) validate() error {
	if s.Mode != nil {
		if _, err := model.ParseMode(string(*s.Mode)); err != nil {
			return err
		}
	}
	if s.Tone != nil {
		if _, err := model.ParseTone(string(*s.Tone)); err != nil {
			return err
		}
	}
	if s.MessageType != nil {
		if _, err := model.ParseMessageType(string(*s.MessageType)); err != nil {
			return err
		}
	}
	if s.Length != nil {
		if _, err := model.ParseLength(string(*s.Length)); err != nil {
			return err
		}
	}
	return nil
}

func (s DraftSettings) apply(draft *model.Draft) {
	if s.Mode != nil {
		draft.Mode, _ = model.ParseMode(string(*s.Mode))
	}
	if s.Tone != nil {
		draft.Tone, _ = model.ParseTone(string(*s.Tone))
		if draft.Tone != model.ToneCustom {
			draft.CustomTone = ""
		}
	}
	if s.CustomTone != nil && draft.Tone == model.ToneCustom {
		draft.CustomTone = strings.TrimSpace(*s.CustomTone)
	}
	if s.MessageType != nil {
		draft.MessageType, _ = model.ParseMessageType(string(*s.MessageType))
	}
	if s.Length != nil {
		draft.Length, _ = model.ParseLength(string(*s.Length))
	}
	if s.Recipient != nil {
		draft.Recipient = strings.TrimSpace(*s.Recipient)
	}
	if s.AdditionalContext != nil {
		draft.AdditionalContext = strings.TrimSpace(*s.AdditionalContext)
	}
	if s.InitialMessageContext != nil {
		draft.InitialMessageContext = strings.TrimSpace(*s.InitialMessageContext)
	}
}
