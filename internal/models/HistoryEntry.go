package models

import "unicode/utf8"

// HistoryCapacity bounds every user's history collection.
const HistoryCapacity = 30

const previewRunes = 90

// HistoryEntry is one completed reading. Entries are never modified after creation.
type HistoryEntry struct {
	// ID is the submission time in unix milliseconds, strictly increasing per collection.
	ID        int64       `json:"id"`
	Kind      ReadingKind `json:"kind"`
	CreatedAt string      `json:"createdAt"`
	Question  string      `json:"question"`
	Narrative string      `json:"narrative"`
	Image     []byte      `json:"image,omitempty"`
	MediaType string      `json:"mediaType,omitempty"`
}

type HistorySummary struct {
	ID        int64       `json:"id"`
	Kind      ReadingKind `json:"kind"`
	CreatedAt string      `json:"createdAt"`
	Question  string      `json:"question"`
	Preview   string      `json:"preview"`
	HasImage  bool        `json:"hasImage"`
}

func (e HistoryEntry) Summary() HistorySummary {
	return HistorySummary{
		ID:        e.ID,
		Kind:      e.Kind,
		CreatedAt: e.CreatedAt,
		Question:  e.Question,
		Preview:   preview(e.Narrative),
		HasImage:  len(e.Image) > 0,
	}
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:previewRunes]) + "..."
}

// HistoryCollection is newest first and never longer than HistoryCapacity.
type HistoryCollection []HistoryEntry

func HistoryKey(email string) string {
	return "history:" + email
}

// Insert returns a new collection with entry at the front and the tail
// evicted past capacity. The receiver is left untouched. When entry.ID does
// not exceed the current head the id is bumped to head+1, so ids stay
// strictly decreasing from front to back.
func (c HistoryCollection) Insert(entry HistoryEntry) (HistoryCollection, HistoryEntry) {
	if len(c) > 0 && entry.ID <= c[0].ID {
		entry.ID = c[0].ID + 1
	}

	size := min(len(c)+1, HistoryCapacity)
	next := make(HistoryCollection, 0, size)
	next = append(next, entry)
	next = append(next, c[:size-1]...)
	return next, entry
}

// Filter keeps relative order. KindAll returns a copy of the whole collection.
func (c HistoryCollection) Filter(kind ReadingKind) HistoryCollection {
	out := make(HistoryCollection, 0, len(c))
	for _, e := range c {
		if kind == KindAll || e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (c HistoryCollection) Lookup(id int64) (HistoryEntry, bool) {
	for _, e := range c {
		if e.ID == id {
			return e, true
		}
	}
	return HistoryEntry{}, false
}

func (c HistoryCollection) Summaries() []HistorySummary {
	out := make([]HistorySummary, len(c))
	for i, e := range c {
		out[i] = e.Summary()
	}
	return out
}

func (c HistoryCollection) Count(kind ReadingKind) int {
	n := 0
	for _, e := range c {
		if kind == KindAll || e.Kind == kind {
			n++
		}
	}
	return n
}
