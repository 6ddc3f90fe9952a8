package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/iamvkosarev/reply-genie-bot/internal/model"
)

// Prompt is the system instruction plus the user turn sent to the
// completion service.
type Prompt struct {
	System string
	User   string
}

type Composer struct {
	now func() time.Time
}

// NewComposer builds a composer that stamps prompts with now(). A nil clock
// means time.Now.
func NewComposer(now func() time.Time) *Composer {
	if now == nil {
		now = time.Now
	}
	return &Composer{now: now}
}

// Compose validates req and renders both prompt strings. The only input that
// is not part of req is the current time.
func (c *Composer) Compose(req model.GenerationRequest) (Prompt, error) {
	if err := req.Validate(); err != nil {
		return Prompt{}, err
	}

	now := c.now()
	timeString := now.Format(clockLayout)
	dateString := now.Format(calendarLayout)

	return Prompt{
		System: systemInstructions(req, timeString, dateString),
		User:   userPrompt(req, timeString, dateString),
	}, nil
}

func systemInstructions(req model.GenerationRequest, timeString, dateString string) string {
	var b strings.Builder

	target := "replies"
	if req.Mode == model.ModeStart {
		target = "opening messages"
	}
	fmt.Fprintf(&b, "You are helping craft %s %s. The current time is %s on %s.",
		target, toneDescription(req), timeString, dateString)

	if req.Recipient != "" {
		fmt.Fprintf(&b, " You are helping craft a message to %s.", req.Recipient)
	}
	if req.Mode == model.ModeStart {
		b.WriteString(" You are helping the user START a new conversation.")
	} else {
		b.WriteString(" You are helping the user REPLY to an existing conversation.")
		b.WriteString(" IMPORTANT: Analyze the exact writing style, structure, and language patterns" +
			" in the conversation and match them precisely.")
	}
	b.WriteString(" Your responses must be in JSON format.\n")

	b.WriteString(humanGuidelines)
	b.WriteString("\n")
	b.WriteString(messageTypeGuidance[req.MessageType])

	if len(req.History) > 0 {
		b.WriteString(styleMatching)
	}
	return b.String()
}

func toneDescription(req model.GenerationRequest) string {
	switch req.Tone {
	case model.ToneNatural:
		return "that keep the existing tone and style of the conversation"
	case model.ToneCustom:
		return fmt.Sprintf("in a \"%s\" tone", req.CustomTone)
	default:
		return fmt.Sprintf("in a %s tone", req.Tone)
	}
}

func toneInstruction(req model.GenerationRequest) string {
	switch req.Tone {
	case model.ToneNatural:
		return "Maintain the natural tone and style from the conversation. " +
			"Don't alter the writing style - match it precisely."
	case model.ToneCustom:
		return fmt.Sprintf("Write in this custom tone: \"%s\". "+
			"Use this as your guide for the overall feeling and style.", req.CustomTone)
	default:
		return fmt.Sprintf("Write in a %s tone.", req.Tone)
	}
}

func userPrompt(req model.GenerationRequest, timeString, dateString string) string {
	var b strings.Builder
	noun := req.MessageType.Noun()

	if req.Mode == model.ModeStart {
		recipient := req.Recipient
		if recipient == "" {
			recipient = unnamedRecipient
		}
		fmt.Fprintf(&b, "I need to START a %s conversation with %s.\n\n", noun, recipient)
		fmt.Fprintf(&b, "What I want to communicate: \"%s\"\n\n", req.InitialMessageContext)
		if req.AdditionalContext != "" {
			fmt.Fprintf(&b, "Additional context: %s\n\n", req.AdditionalContext)
		}
		b.WriteString("Please generate 3 different ways I could start this conversation, " +
			"based on what I want to communicate.\n\n")
		if len(req.History) > 0 {
			b.WriteString(formatHistory(req))
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Generate 3 different ways I could start this %s.\n", noun)
	} else {
		fmt.Fprintf(&b, "I need to reply to this %s conversation.\n", noun)
		b.WriteString(formatHistory(req))
		if req.AdditionalContext != "" {
			b.WriteString("\nAdditional context about this conversation:\n")
			b.WriteString(req.AdditionalContext)
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "\n%s: \"%s\" (this is the message I need to reply to)\n\n",
			counterpartyLabel(req), req.LastMessage())
		fmt.Fprintf(&b, "Generate 3 different ways I could reply to this %s.\n", noun)
	}

	fmt.Fprintf(&b, "%s %s %s\n", authenticityHints, toneInstruction(req), lengthInstructions[req.Length])
	fmt.Fprintf(&b, "It's %s on %s.\n\n", timeString, dateString)

	if req.Mode == model.ModeReply && req.AdditionalContext != "" {
		fmt.Fprintf(&b, "IMPORTANT - Consider this additional context: %s\n\n", req.AdditionalContext)
	}
	b.WriteString(returnFormat)
	return b.String()
}

// formatHistory renders the conversation earliest first, one quoted line per
// message.
func formatHistory(req model.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("\nHere is the conversation history (from earliest to latest):\n")
	other := counterpartyLabel(req)
	for _, msg := range req.History {
		label := other
		if msg.Sender == model.SenderMe {
			label = selfLabel
		}
		fmt.Fprintf(&b, "%s: \"%s\"\n", label, msg.Content)
	}
	return b.String()
}

func counterpartyLabel(req model.GenerationRequest) string {
	if req.Recipient != "" {
		return req.Recipient
	}
	return otherPartyLabel
}
