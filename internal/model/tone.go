package model

import (
	"fmt"
	"strings"
)

type Tone string

const (
	ToneNatural      = Tone("natural")
	ToneChill        = Tone("chill")
	ToneKind         = Tone("kind")
	ToneAssertive    = Tone("assertive")
	ToneFlirty       = Tone("flirty")
	ToneFunny        = Tone("funny")
	ToneProfessional = Tone("professional")
	ToneCustom       = Tone("custom")
)

// Tones lists every tone in the order they are offered to users.
var Tones = []Tone{
	ToneNatural,
	ToneChill,
	ToneKind,
	ToneAssertive,
	ToneFlirty,
	ToneFunny,
	ToneProfessional,
	ToneCustom,
}

var toneLabels = map[Tone]string{
	ToneNatural:      "Natural",
	ToneChill:        "Chill",
	ToneKind:         "Kind",
	ToneAssertive:    "Assertive",
	ToneFlirty:       "Flirty",
	ToneFunny:        "Funny",
	ToneProfessional: "Professional",
	ToneCustom:       "Custom Tone",
}

// ParseTone accepts the tone names and the legacy "default" alias. An empty
// string selects the natural tone.
func ParseTone(s string) (Tone, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "default":
		return ToneNatural, nil
	}
	tone := Tone(v)
	if _, ok := toneLabels[tone]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTone, s)
	}
	return tone, nil
}

func (t Tone) Label() string {
	if label, ok := toneLabels[t]; ok {
		return label
	}
	return string(t)
}
