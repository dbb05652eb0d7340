package models

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

const (
	// HistoryVersionLegacy is the bare array written before records carried a version.
	HistoryVersionLegacy = 1
	HistoryVersion       = 2
)

const legacyMediaType = "image/jpeg"

var ErrMalformedHistory = errors.New("malformed history record")

// HistoryRecord is the persisted form of a user's history.
type HistoryRecord struct {
	Version int               `json:"version"`
	Entries HistoryCollection `json:"entries"`
}

type historyRecordV2 struct {
	Version int               `json:"version"`
	Entries HistoryCollection `json:"entries"`
}

type legacyHistoryEntry struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Date     string `json:"date"`
	Question string `json:"question"`
	Reading  string `json:"reading"`
	ImageB64 string `json:"imageB64"`
}

func NewHistoryRecord(entries HistoryCollection) HistoryRecord {
	return HistoryRecord{Version: HistoryVersion, Entries: entries}
}

func (r HistoryRecord) MarshalJSON() ([]byte, error) {
	entries := r.Entries
	if entries == nil {
		entries = HistoryCollection{}
	}
	return json.Marshal(historyRecordV2{Version: HistoryVersion, Entries: entries})
}

// UnmarshalJSON reads the current record and migrates the legacy array.
// Anything else is rejected with ErrMalformedHistory.
func (r *HistoryRecord) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ErrMalformedHistory
	}

	switch trimmed[0] {
	case '[':
		entries, err := migrateLegacyHistory(trimmed)
		if err != nil {
			return err
		}
		r.Version = HistoryVersionLegacy
		r.Entries = entries
	case '{':
		var rec historyRecordV2
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedHistory, err)
		}
		if rec.Version != HistoryVersion {
			return fmt.Errorf("%w: unsupported version %d", ErrMalformedHistory, rec.Version)
		}
		for i := range rec.Entries {
			if err := validateEntry(rec.Entries[i]); err != nil {
				return err
			}
		}
		r.Version = rec.Version
		r.Entries = truncate(rec.Entries)
	default:
		return ErrMalformedHistory
	}
	return nil
}

func migrateLegacyHistory(data []byte) (HistoryCollection, error) {
	var legacy []legacyHistoryEntry
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHistory, err)
	}

	entries := make(HistoryCollection, 0, len(legacy))
	for _, l := range legacy {
		kind, err := ParseReadingKind(l.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedHistory, l.ID, err)
		}
		entry := HistoryEntry{
			ID:        l.ID,
			Kind:      kind,
			CreatedAt: l.Date,
			Question:  l.Question,
			Narrative: l.Reading,
		}
		if l.ImageB64 != "" {
			image, err := base64.StdEncoding.DecodeString(l.ImageB64)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %d image: %v", ErrMalformedHistory, l.ID, err)
			}
			entry.Image = image
			entry.MediaType = legacyMediaType
		}
		if err := validateEntry(entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return truncate(entries), nil
}

func validateEntry(e HistoryEntry) error {
	if e.ID <= 0 {
		return fmt.Errorf("%w: entry id %d", ErrMalformedHistory, e.ID)
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: entry %d kind %q", ErrMalformedHistory, e.ID, e.Kind)
	}
	return nil
}

func truncate(c HistoryCollection) HistoryCollection {
	if len(c) > HistoryCapacity {
		return c[:HistoryCapacity]
	}
	return c
}
