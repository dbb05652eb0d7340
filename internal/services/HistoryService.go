package services

import (
	"context"
	"errors"
	"falci/internal/models"
	"falci/internal/providers"
	"falci/internal/storage"
	"falci/internal/structures"
	"time"
)

type HistoryServiceInterface interface {
	Append(ctx context.Context, email string, entry models.HistoryEntry) (models.HistoryEntry, error)
	List(ctx context.Context, email string) (models.HistoryCollection, error)
	Stats(ctx context.Context, user *models.User, now time.Time) (models.ProfileStats, error)
}

type HistoryService struct {
	store    storage.AdapterInterface
	logger   providers.Logger
	location *time.Location
}

func NewHistoryService(conf *structures.Config, store storage.AdapterInterface, logger providers.Logger) HistoryServiceInterface {
	return &HistoryService{store: store, logger: logger, location: readingLocation(conf)}
}

// Append inserts entry at the front of the user's history inside a single
// read-modify-write, evicting past capacity. The stored entry is returned
// with its final id.
func (hs *HistoryService) Append(ctx context.Context, email string, entry models.HistoryEntry) (models.HistoryEntry, error) {
	var (
		rec    models.HistoryRecord
		stored models.HistoryEntry
	)
	key := models.HistoryKey(email)
	err := hs.store.Update(ctx, key, &rec, func(found bool) (any, error) {
		current := models.HistoryCollection{}
		if found {
			current = rec.Entries
		}
		var next models.HistoryCollection
		next, stored = current.Insert(entry)
		return models.NewHistoryRecord(next), nil
	})
	if err != nil {
		hs.logger.Errorf(providers.TypeApp, "History append %s failed: %s", key, err)
		return models.HistoryEntry{}, err
	}
	return stored, nil
}

func (hs *HistoryService) List(ctx context.Context, email string) (models.HistoryCollection, error) {
	var rec models.HistoryRecord
	err := hs.store.Get(ctx, models.HistoryKey(email), &rec)
	if errors.Is(err, storage.ErrNotFound) {
		return models.HistoryCollection{}, nil
	}
	if err != nil {
		return nil, err
	}
	if rec.Entries == nil {
		return models.HistoryCollection{}, nil
	}
	return rec.Entries, nil
}

func (hs *HistoryService) Stats(ctx context.Context, user *models.User, now time.Time) (models.ProfileStats, error) {
	entries, err := hs.List(ctx, user.Email)
	if err != nil {
		return models.ProfileStats{}, err
	}
	return models.NewProfileStats(entries, user, now, hs.location), nil
}

func readingLocation(conf *structures.Config) *time.Location {
	if conf.Reading.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(conf.Reading.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
