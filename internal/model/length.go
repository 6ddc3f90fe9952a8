package model

import (
	"fmt"
	"strings"
)

type LengthClass string

const (
	LengthShort  = LengthClass("short")
	LengthMedium = LengthClass("medium")
	LengthLong   = LengthClass("long")
)

var Lengths = []LengthClass{LengthShort, LengthMedium, LengthLong}

type lengthBudget struct {
	words  int
	tokens int
}

var lengthBudgets = map[LengthClass]lengthBudget{
	LengthShort:  {words: 15, tokens: 100},
	LengthMedium: {words: 30, tokens: 250},
	LengthLong:   {words: 120, tokens: 1000},
}

// ParseLength maps an empty string to medium.
func ParseLength(s string) (LengthClass, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return LengthMedium, nil
	}
	length := LengthClass(v)
	if _, ok := lengthBudgets[length]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLength, s)
	}
	return length, nil
}

// WordLimit is the hard ceiling applied to every extracted reply.
func (l LengthClass) WordLimit() int {
	if b, ok := lengthBudgets[l]; ok {
		return b.words
	}
	return lengthBudgets[LengthLong].words
}

// MaxTokens is the completion budget requested upstream.
func (l LengthClass) MaxTokens() int {
	if b, ok := lengthBudgets[l]; ok {
		return b.tokens
	}
	return lengthBudgets[LengthLong].tokens
}
