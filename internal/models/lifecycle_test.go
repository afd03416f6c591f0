package models

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name   string
		active bool
		window Window
		want   bool
	}{
		{"no bounds", true, Window{}, true},
		{"inactive", false, Window{}, false},
		{"started", true, Window{Start: &before}, true},
		{"not started", true, Window{Start: &after}, false},
		{"ended", true, Window{End: &before}, false},
		{"ends later", true, Window{End: &after}, true},
		{"start equals now", true, Window{Start: &now}, true},
		{"end equals now", true, Window{End: &now}, true},
		{"inside", true, Window{Start: &before, End: &after}, true},
		{"inactive inside", false, Window{Start: &before, End: &after}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.active, tt.window, now))
		})
	}
}

func TestIsValidMatchesDefinitionAcrossInstants(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	bounds := []*time.Time{nil, &start, &end}

	for _, s := range bounds {
		for _, e := range bounds {
			w := Window{Start: s, End: e}
			for h := -24; h <= 96; h += 6 {
				now := start.Add(time.Duration(h) * time.Hour)
				want := (s == nil || !s.After(now)) && (e == nil || !e.Before(now))
				assert.Equal(t, want, IsValid(true, w, now), "window %v now %v", w, now)
				assert.False(t, IsValid(false, w, now))
			}
		}
	}
}

func TestIsValidOnIncludesWholeEndDay(t *testing.T) {
	end := Date(2026, 6, 30)
	w := Window{Start: TimePtr(Date(2026, 6, 1)), End: &end}

	assert.True(t, IsValidOn(true, w, time.Date(2026, 6, 30, 23, 59, 0, 0, time.UTC)))
	assert.False(t, IsValidOn(true, w, time.Date(2026, 7, 1, 0, 0, 1, 0, time.UTC)))
	assert.True(t, IsValidOn(true, w, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsValidOn(true, w, time.Date(2026, 5, 31, 23, 0, 0, 0, time.UTC)))
}

func TestWindowOrdered(t *testing.T) {
	a, b := Date(2026, 1, 1), Date(2026, 2, 1)
	assert.True(t, Window{Start: &a, End: &b}.Ordered())
	assert.True(t, Window{Start: &a, End: &a}.Ordered())
	assert.False(t, Window{Start: &b, End: &a}.Ordered())
	assert.True(t, Window{Start: &b}.Ordered())
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC), Date(2026, 1, 1)))
	assert.Equal(t, 30, DaysBetween(Date(2026, 1, 1), Date(2026, 1, 31)))
	assert.Equal(t, -1, DaysBetween(Date(2026, 1, 2), Date(2026, 1, 1)))
}

func TestDaysBetweenAcrossDaylightSaving(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2026-03-08 springs forward, 2026-11-01 falls back.
	assert.Equal(t, 30, DaysBetween(time.Date(2026, 3, 1, 9, 0, 0, 0, ny), time.Date(2026, 3, 31, 0, 0, 0, 0, ny)))
	assert.Equal(t, 1, DaysBetween(time.Date(2026, 3, 7, 23, 30, 0, 0, ny), time.Date(2026, 3, 8, 0, 0, 0, 0, ny)))
	assert.Equal(t, 7, DaysBetween(time.Date(2026, 10, 29, 0, 0, 0, 0, ny), time.Date(2026, 11, 5, 0, 0, 0, 0, ny)))
	assert.Equal(t, -30, DaysBetween(time.Date(2026, 3, 31, 8, 0, 0, 0, ny), time.Date(2026, 3, 1, 20, 0, 0, 0, ny)))

	med := Medication{Status: MedicationStatusActive, ExpirationDate: TimePtr(time.Date(2026, 3, 31, 0, 0, 0, 0, ny))}
	assert.Equal(t, 30, med.DaysUntilExpiration(time.Date(2026, 3, 1, 9, 0, 0, 0, ny)))
	assert.True(t, med.NeedsRefill(time.Date(2026, 3, 1, 9, 0, 0, 0, ny), 0, 30))
}
