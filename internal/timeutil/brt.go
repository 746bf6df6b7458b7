package timeutil

import (
	"time"
)

// BRT is the Brasilia time location (UTC-3)
var BRT *time.Location

func init() {
	var err error
	BRT, err = time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		// Fallback: create fixed zone if America/Sao_Paulo not available
		BRT = time.FixedZone("BRT", -3*60*60)
	}
}

// Now returns the current time in BRT
func Now() time.Time {
	return time.Now().In(BRT)
}

// ToBRT converts any time to BRT
func ToBRT(t time.Time) time.Time {
	return t.In(BRT)
}

// ParseInBRT parses a time string and returns it in BRT
func ParseInBRT(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, BRT)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// FormatBRT formats a time in BRT using the given layout
func FormatBRT(t time.Time, layout string) string {
	return t.In(BRT).Format(layout)
}

// StartOfDay returns midnight of t's day in BRT
func StartOfDay(t time.Time) time.Time {
	t = t.In(BRT)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, BRT)
}
