package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Draft is the state a user builds up before asking for replies: the
// conversation so far and every generation setting.
type Draft struct {
	DraftID               uuid.UUID
	Mode                  ConversationMode
	History               []ConversationMessage
	Tone                  Tone
	CustomTone            string
	MessageType           MessageType
	Length                LengthClass
	Recipient             string
	AdditionalContext     string
	InitialMessageContext string
	Replies               []ReplyOption
	UpdatedAt             time.Time
}

func NewDraft(draftID uuid.UUID) Draft {
	return Draft{
		DraftID:     draftID,
		Mode:        ModeReply,
		History:     make([]ConversationMessage, 0),
		Tone:        ToneNatural,
		MessageType: MessageTypeText,
		Length:      LengthMedium,
		UpdatedAt:   time.Now(),
	}
}

// Reset restores the defaults. The length class survives a reset.
func (d *Draft) Reset() {
	length := d.Length
	*d = NewDraft(d.DraftID)
	if length != "" {
		d.Length = length
	}
}

func (d *Draft) AddMessage(msg ConversationMessage) {
	d.History = append(d.History, msg)
}

func (d *Draft) RemoveMessage(index int) error {
	if index < 0 || index >= len(d.History) {
		return ErrMessageIndexOutOfRange
	}
	d.History = append(d.History[:index:index], d.History[index+1:]...)
	if len(d.History) == 0 {
		d.Replies = nil
	}
	return nil
}

func (d Draft) Snapshot() GenerationRequest {
	req := GenerationRequest{
		Mode:                  d.Mode,
		History:               append([]ConversationMessage(nil), d.History...),
		Tone:                  d.Tone,
		MessageType:           d.MessageType,
		Length:                d.Length,
		Recipient:             strings.TrimSpace(d.Recipient),
		AdditionalContext:     strings.TrimSpace(d.AdditionalContext),
		InitialMessageContext: strings.TrimSpace(d.InitialMessageContext),
	}
	if d.Tone == ToneCustom {
		req.CustomTone = strings.TrimSpace(d.CustomTone)
	}
	return req
}
