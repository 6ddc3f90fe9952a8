package in_memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/reply-genie-bot/internal/model"
)

type DraftStorage struct {
	mu                sync.RWMutex
	drafts            map[uuid.UUID]model.Draft
	telegramDraftsIDs map[int64]uuid.UUID
}

func NewDraftStorage() *DraftStorage {
	return &DraftStorage{
		drafts:            make(map[uuid.UUID]model.Draft),
		telegramDraftsIDs: make(map[int64]uuid.UUID),
	}
}

func (d *DraftStorage) CreateDraft(_ context.Context) (model.Draft, error) {
	draft := model.NewDraft(uuid.New())

	d.mu.Lock()
	defer d.mu.Unlock()
	d.drafts[draft.DraftID] = cloneDraft(draft)
	return draft, nil
}

func (d *DraftStorage) GetDraft(_ context.Context, draftID uuid.UUID) (model.Draft, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	draft, ok := d.drafts[draftID]
	if !ok {
		return model.Draft{}, model.ErrDraftDoesNotExist
	}
	return cloneDraft(draft), nil
}

func (d *DraftStorage) SaveDraft(_ context.Context, draft model.Draft) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.drafts[draft.DraftID]; !ok {
		return model.ErrDraftDoesNotExist
	}
	draft.UpdatedAt = time.Now()
	d.drafts[draft.DraftID] = cloneDraft(draft)
	return nil
}

func (d *DraftStorage) GetDraftIDForTelegramUser(_ context.Context, telegramID int64) (uuid.UUID, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	draftID, ok := d.telegramDraftsIDs[telegramID]
	if !ok {
		return uuid.Nil, model.ErrTelegramUserDoesNotExists
	}
	return draftID, nil
}

func (d *DraftStorage) BindTelegramUser(_ context.Context, telegramID int64, draftID uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.drafts[draftID]; !ok {
		return model.ErrDraftDoesNotExist
	}
	d.telegramDraftsIDs[telegramID] = draftID
	return nil
}

// cloneDraft detaches the slices so callers never share memory with the store.
func cloneDraft(draft model.Draft) model.Draft {
	draft.History = append(make([]model.ConversationMessage, 0, len(draft.History)), draft.History...)
	if draft.Replies != nil {
		draft.Replies = append([]model.ReplyOption(nil), draft.Replies...)
	}
	return draft
}
