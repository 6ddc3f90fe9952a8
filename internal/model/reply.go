package model

type ReplyOption struct {
	Index int
	Text  string
}

func NewReplyOptions(texts []string) []ReplyOption {
	options := make([]ReplyOption, 0, len(texts))
	for i, text := range texts {
		options = append(options, ReplyOption{Index: i, Text: text})
	}
	return options
}
