package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2026-03-02 10:00 local.
var scheduleNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func TestResolveStartWeekdays(t *testing.T) {
	tests := []struct {
		rawDate string
		wantDay int
	}{
		{"tuesday", 3},
		{"friday", 6},
		{"saturday", 7},
		{"sunday", 8},
		// Same weekday as today resolves a full week out, never today.
		{"monday", 9},
		{"next Friday", 6},
		{"Wednesday", 4},
	}

	for _, tt := range tests {
		t.Run(tt.rawDate, func(t *testing.T) {
			start, err := ResolveStart(tt.rawDate, "", scheduleNow)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDay, start.Day())
			assert.Equal(t, 9, start.Hour(), "empty time defaults to 09:00")
			assert.NotEqual(t, scheduleNow.Day(), start.Day())
		})
	}
}

func TestResolveStartSeveralWeekdaysIsDeterministic(t *testing.T) {
	// Both days are named; the earlier one in the week wins every time.
	for i := 0; i < 20; i++ {
		start, err := ResolveStart("monday or tuesday would work", "", scheduleNow)
		require.NoError(t, err)
		assert.Equal(t, 9, start.Day())
	}
}

func TestResolveStartDefaultsToTomorrow(t *testing.T) {
	for _, raw := range []string{"", "tomorrow", "Tomorrow afternoon"} {
		start, err := ResolveStart(raw, "", scheduleNow)
		require.NoError(t, err)
		assert.Equal(t, 3, start.Day(), "raw date %q", raw)
	}
}

func TestResolveStartISODate(t *testing.T) {
	start, err := ResolveStart("2026-03-20", "2:30 PM", scheduleNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 20, 14, 30, 0, 0, time.UTC), start)
}

func TestResolveStartClockLiterals(t *testing.T) {
	tests := []struct {
		rawTime    string
		wantHour   int
		wantMinute int
	}{
		{"2:30 PM", 14, 30},
		{"2:30pm", 14, 30},
		{"2 PM", 14, 0},
		{"2pm", 14, 0},
		{"2 p.m.", 14, 0},
		{"2:15 p.m.", 14, 15},
		{"11 a.m.", 11, 0},
		{"12 pm", 12, 0},
		{"12 am", 0, 0},
		{"12:30am", 0, 30},
		{"9am", 9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.rawTime, func(t *testing.T) {
			start, err := ResolveStart("friday", tt.rawTime, scheduleNow)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHour, start.Hour())
			assert.Equal(t, tt.wantMinute, start.Minute())
		})
	}
}

func TestResolveStartDayparts(t *testing.T) {
	tests := []struct {
		rawTime  string
		wantHour int
	}{
		{"morning", 10},
		{"in the afternoon", 14},
		{"evening", 17},
		// Daypart keyword wins over a clock literal in the same token.
		{"morning, maybe 2pm", 10},
	}

	for _, tt := range tests {
		t.Run(tt.rawTime, func(t *testing.T) {
			start, err := ResolveStart("friday", tt.rawTime, scheduleNow)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHour, start.Hour())
			assert.Equal(t, 0, start.Minute())
		})
	}
}

func TestResolveStartRejectsGarbage(t *testing.T) {
	_, err := ResolveStart("someday", "", scheduleNow)
	assert.ErrorContains(t, err, "unrecognized date")

	_, err = ResolveStart("friday", "whenever", scheduleNow)
	assert.ErrorContains(t, err, "unrecognized time")

	_, err = ResolveStart("friday", "13 pm", scheduleNow)
	assert.Error(t, err)
}

func TestResolveInterval(t *testing.T) {
	start, end, err := ResolveInterval("friday", "2pm", scheduleNow)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, end.Sub(start))
}
