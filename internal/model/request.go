package model

import "strings"

// GenerationRequest is an immutable snapshot of everything the prompt is
// built from. Build it with Draft.Snapshot or fill it directly and call
// Validate before use.
type GenerationRequest struct {
	Mode                  ConversationMode
	History               []ConversationMessage
	Tone                  Tone
	CustomTone            string
	MessageType           MessageType
	Length                LengthClass
	Recipient             string
	AdditionalContext     string
	InitialMessageContext string
}

func (r GenerationRequest) Validate() error {
	switch r.Mode {
	case ModeReply:
		if len(r.History) == 0 {
			return ErrEmptyHistory
		}
	case ModeStart:
		if strings.TrimSpace(r.InitialMessageContext) == "" {
			return ErrEmptyIntent
		}
	default:
		return ErrUnknownMode
	}
	if _, ok := toneLabels[r.Tone]; !ok {
		return ErrUnknownTone
	}
	if r.Tone == ToneCustom && strings.TrimSpace(r.CustomTone) == "" {
		return ErrCustomToneRequired
	}
	if _, ok := lengthBudgets[r.Length]; !ok {
		return ErrUnknownLength
	}
	switch r.MessageType {
	case MessageTypeText, MessageTypeDM, MessageTypeEmail:
	default:
		return ErrUnknownMessageType
	}
	return nil
}

// LastMessage is the content being answered in reply mode.
func (r GenerationRequest) LastMessage() string {
	if r.Mode != ModeReply || len(r.History) == 0 {
		return ""
	}
	return r.History[len(r.History)-1].Content
}

// WithHistory returns a copy of the request carrying the given history.
func (r GenerationRequest) WithHistory(history []ConversationMessage) GenerationRequest {
	r.History = append([]ConversationMessage(nil), history...)
	return r
}
