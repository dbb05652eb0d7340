package models

import (
	"fmt"
	"time"
)

var turkishMonths = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

func TurkishMonth(m time.Month) string {
	return turkishMonths[m-1]
}

// FormatTurkishDateTime renders t the way tr-TR locales print a long date
// with hours and minutes, e.g. "14 Ekim 2026 15:04".
func FormatTurkishDateTime(t time.Time) string {
	return fmt.Sprintf("%d %s %d %02d:%02d", t.Day(), TurkishMonth(t.Month()), t.Year(), t.Hour(), t.Minute())
}

// FormatTurkishMonthYear renders e.g. "Ekim 2026".
func FormatTurkishMonthYear(t time.Time) string {
	return fmt.Sprintf("%s %d", TurkishMonth(t.Month()), t.Year())
}
