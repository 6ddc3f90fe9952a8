package api

import (
	"strings"
	"time"

	"github.com/iamvkosarev/reply-genie-bot/internal/model"
	"github.com/iamvkosarev/reply-genie-bot/internal/usecase"
)

type messageDTO struct {
	Content   string     `json:"content"`
	Sender    string     `json:"sender"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// GenerationRequestDTO is the body of POST /api/v1/replies. Empty enum
// fields take their defaults.
type GenerationRequestDTO struct {
	Mode                  string       `json:"mode"`
	History               []messageDTO `json:"history"`
	Tone                  string       `json:"tone"`
	CustomTone            string       `json:"custom_tone,omitempty"`
	MessageType           string       `json:"message_type"`
	Length                string       `json:"length"`
	Recipient             string       `json:"recipient,omitempty"`
	AdditionalContext     string       `json:"additional_context,omitempty"`
	InitialMessageContext string       `json:"initial_message_context,omitempty"`
}

type RepliesResponse struct {
	Replies        []string `json:"replies"`
	Placeholder    bool     `json:"placeholder"`
	ContextTrimmed bool     `json:"context_trimmed"`
}

type replyOptionDTO struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type DraftResponse struct {
	ID                    string           `json:"id"`
	Mode                  string           `json:"mode"`
	History               []messageDTO     `json:"history"`
	Tone                  string           `json:"tone"`
	CustomTone            string           `json:"custom_tone,omitempty"`
	MessageType           string           `json:"message_type"`
	Length                string           `json:"length"`
	Recipient             string           `json:"recipient,omitempty"`
	AdditionalContext     string           `json:"additional_context,omitempty"`
	InitialMessageContext string           `json:"initial_message_context,omitempty"`
	Replies               []replyOptionDTO `json:"replies"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// SettingsRequest is the body of PATCH /api/v1/drafts/{id}. Absent fields are
// left unchanged.
type SettingsRequest struct {
	Mode                  *string `json:"mode,omitempty"`
	Tone                  *string `json:"tone,omitempty"`
	CustomTone            *string `json:"custom_tone,omitempty"`
	MessageType           *string `json:"message_type,omitempty"`
	Length                *string `json:"length,omitempty"`
	Recipient             *string `json:"recipient,omitempty"`
	AdditionalContext     *string `json:"additional_context,omitempty"`
	InitialMessageContext *string `json:"initial_message_context,omitempty"`
}

type AddMessageRequest struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

type DraftRepliesResponse struct {
	Draft DraftResponse `json:"draft"`
	RepliesResponse
}

func (d GenerationRequestDTO) toModel() (model.GenerationRequest, error) {
	mode, err := model.ParseMode(d.Mode)
	if err != nil {
		return model.GenerationRequest{}, err
	}
	tone, err := model.ParseTone(d.Tone)
	if err != nil {
		return model.GenerationRequest{}, err
	}
	messageType, err := model.ParseMessageType(d.MessageType)
	if err != nil {
		return model.GenerationRequest{}, err
	}
	length, err := model.ParseLength(d.Length)
	if err != nil {
		return model.GenerationRequest{}, err
	}

	history := make([]model.ConversationMessage, 0, len(d.History))
	for _, msg := range d.History {
		sender, err := model.ParseSender(msg.Sender)
		if err != nil {
			return model.GenerationRequest{}, err
		}
		message, err := model.NewConversationMessage(sender, msg.Content)
		if err != nil {
			return model.GenerationRequest{}, err
		}
		if msg.Timestamp != nil {
			message.Timestamp = msg.Timestamp
		}
		history = append(history, message)
	}

	req := model.GenerationRequest{
		Mode:                  mode,
		History:               history,
		Tone:                  tone,
		MessageType:           messageType,
		Length:                length,
		Recipient:             strings.TrimSpace(d.Recipient),
		AdditionalContext:     strings.TrimSpace(d.AdditionalContext),
		InitialMessageContext: strings.TrimSpace(d.InitialMessageContext),
	}
	if tone == model.ToneCustom {
		req.CustomTone = strings.TrimSpace(d.CustomTone)
	}
	return req, nil
}

func (s SettingsRequest) toSettings() (usecase.DraftSettings, error) {
	var settings usecase.DraftSettings
	if s.Mode != nil {
		mode, err := model.ParseMode(*s.Mode)
		if err != nil {
			return usecase.DraftSettings{}, err
		}
		settings.Mode = &mode
	}
	if s.Tone != nil {
		tone, err := model.ParseTone(*s.Tone)
		if err != nil {
			return usecase.DraftSettings{}, err
		}
		settings.Tone = &tone
	}
	if s.MessageType != nil {
		messageType, err := model.ParseMessageType(*s.MessageType)
		if err != nil {
			return usecase.DraftSettings{}, err
		}
		settings.MessageType = &messageType
	}
	if s.Length != nil {
		length, err := model.ParseLength(*s.Length)
		if err != nil {
			return usecase.DraftSettings{}, err
		}
		settings.Length = &length
	}
	settings.CustomTone = s.CustomTone
	settings.Recipient = s.Recipient
	settings.AdditionalContext = s.AdditionalContext
	settings.InitialMessageContext = s.InitialMessageContext
	return settings, nil
}

func toRepliesResponse(result usecase.GenerationResult) RepliesResponse {
	return RepliesResponse{
		Replies:        result.Replies,
		Placeholder:    result.Placeholder,
		ContextTrimmed: result.ContextTrimmed,
	}
}

func toDraftResponse(draft model.Draft) DraftResponse {
	history := make([]messageDTO, 0, len(draft.History))
	for _, msg := range draft.History {
		history = append(history, messageDTO{
			Content:   msg.Content,
			Sender:    string(msg.Sender),
			Timestamp: msg.Timestamp,
		})
	}
	replies := make([]replyOptionDTO, 0, len(draft.Replies))
	for _, r := range draft.Replies {
		replies = append(replies, replyOptionDTO{Index: r.Index, Text: r.Text})
	}
	return DraftResponse{
		ID:                    draft.DraftID.String(),
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
