package models

import (
	"errors"
	"fmt"
)

var ErrUnknownKind = errors.New("unknown reading kind")

type ReadingKind string

const (
	KindCoffee ReadingKind = "coffee"
	KindPalm   ReadingKind = "palm"
	// KindAll is only meaningful as a filter.
	KindAll ReadingKind = "all"
)

// Kinds lists the kinds a reading can be submitted for.
var Kinds = []ReadingKind{KindCoffee, KindPalm}

var legacyKinds = map[string]ReadingKind{
	"kahve": KindCoffee,
	"el":    KindPalm,
}

// ParseReadingKind accepts the current names and the legacy Turkish ones.
func ParseReadingKind(s string) (ReadingKind, error) {
	switch ReadingKind(s) {
	case KindCoffee, KindPalm:
		return ReadingKind(s), nil
	}
	if k, ok := legacyKinds[s]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// ParseKindFilter is ParseReadingKind that also accepts "all" and the empty string.
func ParseKindFilter(s string) (ReadingKind, error) {
	if s == "" || ReadingKind(s) == KindAll {
		return KindAll, nil
	}
	return ParseReadingKind(s)
}

func (k ReadingKind) Valid() bool {
	return k == KindCoffee || k == KindPalm
}

// Title is the display name used when a reading is submitted without a question.
func (k ReadingKind) Title() string {
	switch k {
	case KindCoffee:
		return "Kahve Falı"
	case KindPalm:
		return "El Falı"
	}
	return string(k)
}
