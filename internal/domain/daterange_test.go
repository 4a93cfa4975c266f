package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, start, end string) DateRange {
	t.Helper()
	r, err := ParseDateRange(start, end)
	require.NoError(t, err)
	return r
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{name: "regular range", start: "2030-03-10", end: "2030-03-13"},
		{name: "single day", start: "2030-03-10", end: "2030-03-10"},
		{name: "end before start", start: "2030-03-13", end: "2030-03-10", wantErr: true},
		{name: "impossible date", start: "2030-02-30", end: "2030-03-02", wantErr: true},
		{name: "garbage", start: "tomorrow", end: "2030-03-02", wantErr: true},
		{name: "empty end", start: "2030-03-10", end: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseDateRange(tt.start, tt.end)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start, DayKey(r.Start()))
			assert.Equal(t, tt.end, DayKey(r.End()))
		})
	}
}

func TestNewDateRange_DropsTimeOfDay(t *testing.T) {
	start := time.Date(2030, 5, 1, 17, 45, 0, 0, time.Local)
	end := time.Date(2030, 5, 3, 3, 0, 0, 0, time.Local)

	r, err := NewDateRange(start, end)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2030, 5, 1, 0, 0, 0, 0, time.Local), r.Start())
	assert.Equal(t, 2, r.SpanDays())

	_, err = NewDateRange(time.Time{}, end)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestDateRange_Overlaps(t *testing.T) {
	base := mustRange(t, "2030-03-10", "2030-03-13")

	tests := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{name: "same range", other: base, want: true},
		{name: "touches on end date", other: mustRange(t, "2030-03-13", "2030-03-15"), want: true},
		{name: "touches on start date", other: mustRange(t, "2030-03-08", "2030-03-10"), want: true},
		{name: "inside", other: mustRange(t, "2030-03-11", "2030-03-11"), want: true},
		{name: "covers", other: mustRange(t, "2030-03-01", "2030-03-31"), want: true},
		{name: "day after", other: mustRange(t, "2030-03-14", "2030-03-16"), want: false},
		{name: "day before", other: mustRange(t, "2030-03-05", "2030-03-09"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestDateRange_DurationDaysForPricing(t *testing.T) {
	assert.Equal(t, 3, mustRange(t, "2030-03-10", "2030-03-13").DurationDaysForPricing())
	assert.Equal(t, 1, mustRange(t, "2030-03-10", "2030-03-11").DurationDaysForPricing())
	assert.Equal(t, 1, mustRange(t, "2030-03-10", "2030-03-10").DurationDaysForPricing())
	assert.Equal(t, 0, mustRange(t, "2030-03-10", "2030-03-10").SpanDays())
}

func TestDateRange_ExpandInclusiveDays(t *testing.T) {
	r := mustRange(t, "2030-12-30", "2031-01-02")

	days := r.ExpandInclusiveDays()

	require.Len(t, days, 4)
	keys := make([]string, 0, len(days))
	for _, d := range days {
		keys = append(keys, DayKey(d))
	}
	assert.Equal(t, []string{"2030-12-30", "2030-12-31", "2031-01-01", "2031-01-02"}, keys)
	assert.Len(t, mustRange(t, "2030-01-01", "2030-01-01").ExpandInclusiveDays(), 1)
	assert.Nil(t, DateRange{}.ExpandInclusiveDays())
}

func TestDateRange_SpanDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// 2030-03-31 в Берлине длится 23 часа
	a := time.Date(2030, 3, 30, 0, 0, 0, 0, loc)
	b := time.Date(2030, 4, 2, 0, 0, 0, 0, loc)
	assert.Equal(t, 3, daysBetween(a, b))
}

func TestDateRange_Contains(t *testing.T) {
	r := mustRange(t, "2030-03-10", "2030-03-13")

	assert.True(t, r.Contains(time.Date(2030, 3, 10, 23, 59, 0, 0, time.Local)))
	assert.True(t, r.Contains(time.Date(2030, 3, 13, 0, 0, 0, 0, time.Local)))
	assert.False(t, r.Contains(time.Date(2030, 3, 14, 0, 0, 0, 0, time.Local)))
	assert.False(t, r.Contains(time.Date(2030, 3, 9, 12, 0, 0, 0, time.Local)))
}
