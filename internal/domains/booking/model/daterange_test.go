package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hotelbooking/internal/domains/booking/model"
)

func date(day int) time.Time {
	return time.Date(2026, time.September, day, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end int) model.DateRange {
	t.Helper()

	rng, err := model.NewDateRange(date(start), date(end))
	assert.NoError(t, err)

	return rng
}

func TestNewDateRange(t *testing.T) {
	t.Run("valid range", func(t *testing.T) {
		rng, err := model.NewDateRange(date(1), date(5))

		assert.NoError(t, err)
		assert.Equal(t, date(1), rng.Start)
		assert.Equal(t, date(5), rng.End)
	})

	t.Run("end equal to start rejected", func(t *testing.T) {
		_, err := model.NewDateRange(date(3), date(3))

		assert.ErrorIs(t, err, model.ErrEndNotAfterStart)
	})

	t.Run("end before start rejected", func(t *testing.T) {
		_, err := model.NewDateRange(date(5), date(1))

		assert.ErrorIs(t, err, model.ErrEndNotAfterStart)
	})

	t.Run("times normalized to midnight UTC", func(t *testing.T) {
		loc := time.FixedZone("UTC+7", 7*3600)
		start := time.Date(2026, time.September, 1, 18, 30, 0, 0, time.UTC)
		end := time.Date(2026, time.September, 5, 6, 0, 0, 0, loc)

		rng, err := model.NewDateRange(start, end)

		assert.NoError(t, err)
		assert.Equal(t, date(1), rng.Start)
		// 2026-09-05 06:00 UTC+7 is 2026-09-04 23:00 UTC
		assert.Equal(t, date(4), rng.End)
	})
}

func TestDateRange_Overlaps(t *testing.T) {
	base := mustRange(t, 10, 15)

	tests := []struct {
		name  string
		other model.DateRange
		want  bool
	}{
		{name: "identical ranges", other: mustRange(t, 10, 15), want: true},
		{name: "contained range", other: mustRange(t, 11, 14), want: true},
		{name: "containing range", other: mustRange(t, 5, 20), want: true},
		{name: "partial overlap left", other: mustRange(t, 5, 12), want: true},
		{name: "partial overlap right", other: mustRange(t, 14, 20), want: true},
		{name: "touching at end counts", other: mustRange(t, 15, 20), want: true},
		{name: "touching at start counts", other: mustRange(t, 5, 10), want: true},
		{name: "disjoint before", other: mustRange(t, 1, 9), want: false},
		{name: "disjoint after", other: mustRange(t, 16, 20), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}
