package key_value

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/reply-genie-bot/internal/model"
	"github.com/redis/go-redis/v9"
)

type messageInternal struct {
	Content   string       `json:"content"`
	Sender    model.Sender `json:"sender"`
	Timestamp *time.Time   `json:"timestamp,omitempty"`
}

type replyInternal struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type draftInternal struct {
	DraftID               string            `json:"draft_id"`
	Mode                  string            `json:"mode"`
	History               []messageInternal `json:"history"`
	Tone                  string            `json:"tone"`
	CustomTone            string            `json:"custom_tone,omitempty"`
	MessageType           string            `json:"message_type"`
	Length                string            `json:"length"`
	Recipient             string            `json:"recipient,omitempty"`
	AdditionalContext     string            `json:"additional_context,omitempty"`
	InitialMessageContext string            `json:"initial_message_context,omitempty"`
	Replies               []replyInternal   `json:"replies,omitempty"`
	UpdatedAt             time.Time         `json:"updated_at"`
	TelegramID            int64             `json:"telegram_id,omitempty"`
}

// DraftStorage keeps drafts as JSON values. Every save refreshes the TTL of
// the draft and of the telegram binding pointing at it, so only a draft left
// untouched for ttl disappears.
type DraftStorage struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDraftStorage(rdb *redis.Client, ttl time.Duration) *DraftStorage {
	return &DraftStorage{
		rdb: rdb,
		ttl: ttl,
	}
}

func (d *DraftStorage) CreateDraft(ctx context.Context) (model.Draft, error) {
	draft := model.NewDraft(uuid.New())
	if err := d.setDraftInt(ctx, draft.DraftID, toDraftInternal(draft)); err != nil {
		return model.Draft{}, fmt.Errorf("failed to set draft internal %s: %w", draft.DraftID, err)
	}
	return draft, nil
}

func (d *DraftStorage) GetDraft(ctx context.Context, draftID uuid.UUID) (model.Draft, error) {
	draftInt, err := d.getDraftInt(ctx, draftID)
	if err != nil {
		return model.Draft{}, err
	}
	return fromDraftInternal(draftID, draftInt), nil
}

func (d *DraftStorage) SaveDraft(ctx context.Context, draft model.Draft) error {
	stored, err := d.getDraftInt(ctx, draft.DraftID)
	if err != nil {
		return err
	}
	draft.UpdatedAt = time.Now()
	draftInt := toDraftInternal(draft)
	draftInt.TelegramID = stored.TelegramID

	draftIntJSON, err := json.Marshal(draftInt)
	if err != nil {
		return fmt.Errorf("failed to marshal internal draft: %w", err)
	}
	_, err = d.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, getDraftIDKey(draft.DraftID), draftIntJSON, d.ttl)
		if draftInt.TelegramID != 0 {
			pipe.Expire(ctx, getTelegramDraftKey(draftInt.TelegramID), d.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save draft %s: %w", draft.DraftID, err)
	}
	return nil
}

func (d *DraftStorage) GetDraftIDForTelegramUser(ctx context.Context, telegramID int64) (uuid.UUID, error) {
	telegramKey := getTelegramDraftKey(telegramID)
	draftIDStr, err := d.rdb.Get(ctx, telegramKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, model.ErrTelegramUserDoesNotExists
		}
		return uuid.Nil, fmt.Errorf("failed to get telegram draft id %s: %w", telegramKey, err)
	}
	draftID, err := uuid.Parse(draftIDStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse draftID %s: %w", draftIDStr, err)
	}
	return draftID, nil
}

// BindTelegramUser points the user at draftID and remembers the user on the
// draft, so later saves keep the binding alive.
func (d *DraftStorage) BindTelegramUser(ctx context.Context, telegramID int64, draftID uuid.UUID) error {
	draftInt, err := d.getDraftInt(ctx, draftID)
	if err != nil {
		return err
	}
	draftInt.TelegramID = telegramID
	draftIntJSON, err := json.Marshal(draftInt)
	if err != nil {
		return fmt.Errorf("failed to marshal internal draft: %w", err)
	}

	telegramKey := getTelegramDraftKey(telegramID)
	_, err = d.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, getDraftIDKey(draftID), draftIntJSON, d.ttl)
		pipe.Set(ctx, telegramKey, draftID.String(), d.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save telegram draft id %s: %w", telegramKey, err)
	}
	return nil
}

func (d *DraftStorage) getDraftInt(ctx context.Context, draftID uuid.UUID) (draftInternal, error) {
	draftIDKey := getDraftIDKey(draftID)
	draftIntRaw, err := d.rdb.Get(ctx, draftIDKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return draftInternal{}, model.ErrDraftDoesNotExist
		}
		return draftInternal{}, fmt.Errorf("failed to get draft %s: %w", draftID, err)
	}
	var draftInt draftInternal
	if err = json.Unmarshal([]byte(draftIntRaw), &draftInt); err != nil {
		return draftInternal{}, fmt.Errorf("failed to unmarshal draft %s: %w", draftID, err)
	}
	return draftInt, nil
}

func (d *DraftStorage) setDraftInt(ctx context.Context, draftID uuid.UUID, draftInt draftInternal) error {
	draftIDKey := getDraftIDKey(draftID)
	draftIntJSON, err := json.Marshal(draftInt)
	if err != nil {
		return fmt.Errorf("failed to marshal internal draft: %w", err)
	}
	if err = d.rdb.Set(ctx, draftIDKey, draftIntJSON, d.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draftInternal %s: %w", draftIDKey, err)
	}
	return nil
}

func toDraftInternal(draft model.Draft) draftInternal {
	history := make([]messageInternal, 0, len(draft.History))
	for _, msg := range draft.History {
		history = append(history, messageInternal{
			Content:   msg.Content,
			Sender:    msg.Sender,
			Timestamp: msg.Timestamp,
		})
	}
	replies := make([]replyInternal, 0, len(draft.Replies))
	for _, r := range draft.Replies {
		replies = append(replies, replyInternal{Index: r.Index, Text: r.Text})
	}
	return draftInternal{
		DraftID:               draft.DraftID.String(),
		Mode:                  string(draft.Mode),
		History:               history,
		Tone:                  string(draft.Tone),
		CustomTone:            draft.CustomTone,
		MessageType:           string(draft.MessageType),
		Length:                string(draft.Length),
		Recipient:             draft.Recipient,
		AdditionalContext:     draft.AdditionalContext,
		InitialMessageContext: draft.InitialMessageContext,
		Replies:               replies,
		UpdatedAt:             draft.UpdatedAt,
	}
}

func fromDraftInternal(draftID uuid.UUID, draftInt draftInternal) model.Draft {
	history := make([]model.ConversationMessage, 0, len(draftInt.History))
	for _, msg := range draftInt.History {
		history = append(history, model.ConversationMessage{
			Content:   msg.Content,
			Sender:    msg.Sender,
			Timestamp: msg.Timestamp,
		})
	}
	var replies []model.ReplyOption
	for _, r := range draftInt.Replies {
		replies = append(replies, model.ReplyOption{Index: r.Index, Text: r.Text})
	}
	return model.Draft{
		DraftID:               draftID,
		Mode:                  model.ConversationMode(draftInt.Mode),
		History:               history,
		Tone:                  model.Tone(draftInt.Tone),
		CustomTone:            draftInt.CustomTone,
		MessageType:           model.MessageType(draftInt.MessageType),
		Length:                model.LengthClass(draftInt.Length),
		Recipient:             draftInt.Recipient,
		AdditionalContext:     draftInt.AdditionalContext,
		InitialMessageContext: draftInt.InitialMessageContext,
		Replies:               replies,
		UpdatedAt:             draftInt.UpdatedAt,
	}
}

func getDraftIDKey(draftID uuid.UUID) string {
	return fmt.Sprintf("draft_%v", draftID.String())
}

func getTelegramDraftKey(telegramID int64) string {
	return fmt.Sprintf("telegram_draft_%d", telegramID)
}
