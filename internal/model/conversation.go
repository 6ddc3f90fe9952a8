package model

import (
	"fmt"
	"strings"
	"time"
)

type Sender string

const (
	SenderMe    = Sender("me")
	SenderOther = Sender("other")
)

func ParseSender(s string) (Sender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "me", "user", "local":
		return SenderMe, nil
	case "other", "them", "other-party":
		return SenderOther, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSender, s)
	}
}

type ConversationMessage struct {
	Content   string
	Sender    Sender
	Timestamp *time.Time
}

func NewConversationMessage(sender Sender, content string) (ConversationMessage, error) {
	if strings.TrimSpace(content) == "" {
		return ConversationMessage{}, ErrEmptyMessage
	}
	if sender != SenderMe && sender != SenderOther {
		return ConversationMessage{}, fmt.Errorf("%w: %q", ErrUnknownSender, sender)
	}
	now := time.Now()
	return ConversationMessage{
		Content:   strings.TrimSpace(content),
		Sender:    sender,
		Timestamp: &now,
	}, nil
}
