package local

import (
	"fmt"
	"strings"
)

// Language is the two-letter code the bot answers in.
type Language string

const (
	Eng = Language("en")
	Rus = Language("ru")
)

// ParseLanguage maps a Telegram language code such as "ru-RU" to a supported
// language. Anything unknown is answered in English.
func ParseLanguage(code string) Language {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	if Language(code) == Rus {
		return Rus
	}
	return Eng
}

// Translation is one language variant of a Phrase.
type Translation struct {
	lang Language
	text string
}

func In(lang Language, text string) Translation {
	return Translation{lang: lang, text: text}
}

// Phrase is a bot message with an English text and optional translations.
type Phrase struct {
	english string
	other   map[Language]string
}

func NewPhrase(english string, translations ...Translation) Phrase {
	p := Phrase{english: english}
	if len(translations) == 0 {
		return p
	}
	p.other = make(map[Language]string, len(translations))
	for _, tr := range translations {
		if tr.lang == Eng || tr.text == "" {
			continue
		}
		p.other[tr.lang] = tr.text
	}
	return p
}

// Text returns the phrase in lang, or in English when no translation exists.
func (p Phrase) Text(lang Language) string {
	if text, ok := p.other[lang]; ok {
		return text
	}
	return p.english
}

// Format fills the phrase's verbs with args.
func (p Phrase) Format(lang Language, args ...any) string {
	return fmt.Sprintf(p.Text(lang), args...)
}
