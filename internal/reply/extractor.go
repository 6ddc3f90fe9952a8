// Package reply turns raw completion text into exactly three reply strings.
package reply

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/iamvkosarev/reply-genie-bot/internal/model"
)

// Count is how many replies every extraction yields.
const Count = 3

// FallbackReplies pad the result when fewer than Count replies are recovered.
var FallbackReplies = [Count]string{
	"I'll get back to you soon.",
	"Thanks for your message, I'll think about it.",
	"I'll respond properly when I have time.",
}

var (
	numberedLine  = regexp.MustCompile(`^\d+\.\s`)
	terminalPunct = regexp.MustCompile(`[.!?]$`)
)

// Extract recovers replies from raw, in order of precedence: a JSON array of
// strings, then numbered lines with continuations, then the first non-empty
// lines. Every reply is cut to the word limit of length and the result is
// padded with FallbackReplies. It never fails.
func Extract(raw string, length model.LengthClass) []string {
	limit := length.WordLimit()

	replies, ok := fromJSON(raw, limit)
	if !ok {
		replies = fromNumberedLines(raw, limit)
		if len(replies) == 0 {
			replies = fromPlainLines(raw, limit)
		}
	}

	if len(replies) < Count {
		for _, filler := range FallbackReplies {
			replies = append(replies, TruncateToWordLimit(filler, limit))
		}
	}
	return replies[:Count]
}

// fromJSON reports ok whenever raw is valid JSON, even if it held no usable
// strings; only a parse failure moves on to the line heuristics.
func fromJSON(raw string, limit int) ([]string, bool) {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, false
	}
	items, isArray := parsed.([]any)
	if !isArray {
		return nil, true
	}
	replies := make([]string, 0, len(items))
	for _, item := range items {
		text, isString := item.(string)
		if !isString || strings.TrimSpace(text) == "" {
			continue
		}
		replies = append(replies, TruncateToWordLimit(text, limit))
	}
	return replies, true
}

func fromNumberedLines(raw string, limit int) []string {
	var (
		replies []string
		current string
	)
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case numberedLine.MatchString(trimmed):
			if current != "" {
				replies = append(replies, TruncateToWordLimit(current, limit))
			}
			current = numberedLine.ReplaceAllString(trimmed, "")
		case trimmed != "" && current != "":
			current += " " + trimmed
		case trimmed != "" && len(replies) < Count:
			replies = append(replies, TruncateToWordLimit(trimmed, limit))
		}
	}
	if current != "" {
		replies = append(replies, TruncateToWordLimit(current, limit))
	}
	return replies
}

func fromPlainLines(raw string, limit int) []string {
	var replies []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		replies = append(replies, TruncateToWordLimit(line, limit))
		if len(replies) == Count {
			break
		}
	}
	return replies
}

// TruncateToWordLimit keeps the first limit words of text. A cut reply gets a
// closing period unless it already ends in terminal punctuation. Text within
// the limit is returned untouched.
func TruncateToWordLimit(text string, limit int) string {
	words := strings.Fields(text)
	if len(words) <= limit {
		return text
	}
	truncated := strings.Join(words[:limit], " ")
	if terminalPunct.MatchString(truncated) {
		return truncated
	}
	return truncated + "."
}
