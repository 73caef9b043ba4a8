package erpformat

import "time"

// ToLegacyJulian converts the UTC calendar date of t into the ERP's CYYDDD integer:
// (year - 1900) * 1000 + day of year. 2024-01-15 is 124015.
func ToLegacyJulian(t time.Time) int {
	u := t.UTC()
	return (u.Year()-1900)*1000 + u.YearDay()
}

// FromLegacyJulian converts a CYYDDD integer back to midnight UTC of that date.
func FromLegacyJulian(julian int) time.Time {
	year := julian/1000 + 1900
	day := julian % 1000
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day-1)
}

// TimeOfDay returns the HHMMSS integer written to the ERP's time-of-day column.
func TimeOfDay(t time.Time) int {
	return t.Hour()*10000 + t.Minute()*100 + t.Second()
}
