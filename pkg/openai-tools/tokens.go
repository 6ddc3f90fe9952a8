package openai_tools

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sashabaranov/go-openai"
)

const (
	tokensPerMessage = 3
	tokensPerName    = 1
	tokensPerReply   = 3
	fallbackEncoding = "cl100k_base"
)

// CountToken estimates how many prompt tokens messages take for model,
// following the chat format accounting OpenAI documents for gpt-3.5/gpt-4.
func CountToken(messages []openai.ChatCompletionMessage, model string) (int, error) {
	tkm, err := encodingFor(model)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, message := range messages {
		count += tokensPerMessage
		count += len(tkm.Encode(message.Content, nil, nil))
		count += len(tkm.Encode(message.Role, nil, nil))
		if message.Name != "" {
			count += len(tkm.Encode(message.Name, nil, nil))
			count += tokensPerName
		}
	}
	count += tokensPerReply
	return count, nil
}

func encodingFor(model string) (*tiktoken.Tiktoken, error) {
	tkm, err := tiktoken.EncodingForModel(model)
	if err == nil {
		return tkm, nil
	}
	// Newer and proxied model names are unknown to tiktoken; cl100k is close
	// enough for a budget check.
	tkm, fallbackErr := tiktoken.GetEncoding(fallbackEncoding)
	if fallbackErr != nil {
		return nil, fmt.Errorf("failed to get encoding for model %s: %w", model, err)
	}
	return tkm, nil
}
