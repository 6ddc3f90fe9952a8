package model

import (
	"fmt"
	"strings"
)

type ConversationMode string

const (
	ModeReply = ConversationMode("reply")
	ModeStart = ConversationMode("start")
)

func ParseMode(s string) (ConversationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reply":
		return ModeReply, nil
	case "start":
		return ModeStart, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

type MessageType string

const (
	MessageTypeText  = MessageType("text")
	MessageTypeDM    = MessageType("dm")
	MessageTypeEmail = MessageType("email")
)

var MessageTypes = []MessageType{MessageTypeText, MessageTypeDM, MessageTypeEmail}

func ParseMessageType(s string) (MessageType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return MessageTypeText, nil
	case "dm", "direct-message", "direct_message":
		return MessageTypeDM, nil
	case "email":
		return MessageTypeEmail, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMessageType, s)
	}
}

// Noun is how the message type reads inside a sentence.
func (m MessageType) Noun() string {
	switch m {
	case MessageTypeDM:
		return "direct message"
	case MessageTypeEmail:
		return "email"
	default:
		return "text"
	}
}
