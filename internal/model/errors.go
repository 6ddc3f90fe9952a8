package model

import "errors"

var (
	ErrEmptyHistory           = errors.New("please add at least one message to the conversation")
	ErrEmptyIntent            = errors.New("please enter what you want to say to start the conversation")
	ErrCustomToneRequired     = errors.New("custom tone needs a description")
	ErrEmptyMessage           = errors.New("message is empty")
	ErrMessageIndexOutOfRange = errors.New("message index out of range")
	ErrUnknownTone            = errors.New("unknown tone")
	ErrUnknownLength          = errors.New("unknown message length")
	ErrUnknownMode            = errors.New("unknown conversation mode")
	ErrUnknownMessageType     = errors.New("unknown message type")
	ErrUnknownSender          = errors.New("unknown message sender")
)

var (
	ErrDraftDoesNotExist         = errors.New("draft does not exist")
	ErrTelegramUserDoesNotExists = errors.New("telegram user doesn't exists")
)

var validationErrors = []error{
	ErrEmptyHistory,
	ErrEmptyIntent,
	ErrCustomToneRequired,
	ErrEmptyMessage,
	ErrMessageIndexOutOfRange,
	ErrUnknownTone,
	ErrUnknownLength,
	ErrUnknownMode,
	ErrUnknownMessageType,
	ErrUnknownSender,
}

// IsValidationError reports whether err was caused by bad user input rather
// than by storage or the completion service.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
