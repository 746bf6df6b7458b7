package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rental-backend/internal/timeutil"
)

func TestFirstRentDueDate(t *testing.T) {
	loc := timeutil.BRT

	cases := []struct {
		name   string
		start  time.Time
		dueDay int
		want   time.Time
	}{
		{
			name:   "due day later in the same month",
			start:  time.Date(2026, time.March, 3, 14, 0, 0, 0, loc),
			dueDay: 10,
			want:   time.Date(2026, time.March, 10, 0, 0, 0, 0, loc),
		},
		{
			name:   "due day equals start day",
			start:  time.Date(2026, time.March, 10, 9, 30, 0, 0, loc),
			dueDay: 10,
			want:   time.Date(2026, time.March, 10, 0, 0, 0, 0, loc),
		},
		{
			name:   "due day already passed rolls to next month",
			start:  time.Date(2026, time.March, 20, 0, 0, 0, 0, loc),
			dueDay: 5,
			want:   time.Date(2026, time.April, 5, 0, 0, 0, 0, loc),
		},
		{
			name:   "day 31 clamps in a 30-day month",
			start:  time.Date(2026, time.April, 1, 0, 0, 0, 0, loc),
			dueDay: 31,
			want:   time.Date(2026, time.April, 30, 0, 0, 0, 0, loc),
		},
		{
			name:   "day 31 clamps in February",
			start:  time.Date(2026, time.February, 1, 0, 0, 0, 0, loc),
			dueDay: 31,
			want:   time.Date(2026, time.February, 28, 0, 0, 0, 0, loc),
		},
		{
			name:   "rollover past December lands in January",
			start:  time.Date(2026, time.December, 20, 0, 0, 0, 0, loc),
			dueDay: 5,
			want:   time.Date(2027, time.January, 5, 0, 0, 0, 0, loc),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := firstRentDueDate(tc.start, tc.dueDay)
			assert.True(t, got.Equal(tc.want), "got %s, want %s", got, tc.want)
		})
	}
}

func TestClampedDate(t *testing.T) {
	loc := timeutil.BRT

	got := clampedDate(2024, time.February, 31, loc)
	assert.Equal(t, 29, got.Day(), "2024 is a leap year")

	got = clampedDate(2026, time.June, 15, loc)
	assert.Equal(t, 15, got.Day())
}
