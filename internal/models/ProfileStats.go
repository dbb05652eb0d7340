package models

import "time"

const unknownMemberSince = "Bilinmiyor"

type ProfileStats struct {
	Total       int    `json:"total"`
	Coffee      int    `json:"coffee"`
	Palm        int    `json:"palm"`
	ThisMonth   int    `json:"thisMonth"`
	MemberSince string `json:"memberSince"`
}

// NewProfileStats counts entries per kind and those whose id falls in the
// calendar month of now, evaluated in loc.
func NewProfileStats(c HistoryCollection, user *User, now time.Time, loc *time.Location) ProfileStats {
	now = now.In(loc)
	stats := ProfileStats{
		Total:       len(c),
		Coffee:      c.Count(KindCoffee),
		Palm:        c.Count(KindPalm),
		MemberSince: unknownMemberSince,
	}
	for _, e := range c {
		created := time.UnixMilli(e.ID).In(loc)
		if created.Year() == now.Year() && created.Month() == now.Month() {
			stats.ThisMonth++
		}
	}
	if created := user.Created(); !created.IsZero() {
		stats.MemberSince = FormatTurkishMonthYear(created.In(loc))
	}
	return stats
}
