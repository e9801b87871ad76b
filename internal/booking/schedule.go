package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Appointment duration is fixed; the draft never carries one.
const appointmentDuration = time.Hour

// Default hours when the draft carries only a date or only a time.
const (
	defaultHour   = 9
	morningHour   = 10
	afternoonHour = 14
	eveningHour   = 17
)

// weekdays are checked in week order so a phrase naming several days
// ("monday or tuesday") always resolves to the same one.
var weekdays = []struct {
	name string
	day  time.Weekday
}{
	{"sunday", time.Sunday},
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
}

// Clock literal formats, tried in order: "2:30 PM" first so the bare-hour
// pattern doesn't eat the hour of a colon time, then "2 PM", then dotted
// meridiems like "2 p.m.".
var (
	colonTimeRE  = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm)\b`)
	bareHourRE   = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(am|pm)\b`)
	dottedTimeRE = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*([ap])\.m\.`)
)

// ResolveStart maps the draft's raw date and time tokens to a concrete
// start instant, relative to now. An empty date defaults to tomorrow; an
// empty time defaults to 09:00. An unrecognizable non-empty token is an
// error carrying the raw strings.
func ResolveStart(rawDate, rawTime string, now time.Time) (time.Time, error) {
	day, err := resolveDay(rawDate, now)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := resolveClock(rawTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location()), nil
}

// ResolveInterval resolves the draft's start and applies the fixed duration.
func ResolveInterval(rawDate, rawTime string, now time.Time) (start, end time.Time, err error) {
	start, err = ResolveStart(rawDate, rawTime, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.Add(appointmentDuration), nil
}

func resolveDay(rawDate string, now time.Time) (time.Time, error) {
	lower := strings.ToLower(strings.TrimSpace(rawDate))

	// No date captured: the nearest bookable day.
	if lower == "" || strings.Contains(lower, "tomorrow") {
		return now.AddDate(0, 0, 1), nil
	}

	for _, wd := range weekdays {
		if strings.Contains(lower, wd.name) {
			return nextWeekday(now, wd.day), nil
		}
	}

	if parsed, err := time.ParseInLocation("2006-01-02", lower, now.Location()); err == nil {
		return parsed, nil
	}

	return time.Time{}, fmt.Errorf("booking: unrecognized date %q", rawDate)
}

// nextWeekday returns the next occurrence of wd strictly after today: when
// today already is wd, the result is seven days out, never today.
func nextWeekday(now time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return now.AddDate(0, 0, days)
}

func resolveClock(rawTime string) (hour, minute int, err error) {
	lower := strings.ToLower(strings.TrimSpace(rawTime))

	if lower == "" {
		return defaultHour, 0, nil
	}

	// Daypart keywords win over any clock literal in the same token.
	switch {
	case strings.Contains(lower, "morning"):
		return morningHour, 0, nil
	case strings.Contains(lower, "afternoon"):
		return afternoonHour, 0, nil
	case strings.Contains(lower, "evening"):
		return eveningHour, 0, nil
	}

	if m := colonTimeRE.FindStringSubmatch(lower); m != nil {
		return clockTo24(m[1], m[2], m[3])
	}
	if m := bareHourRE.FindStringSubmatch(lower); m != nil {
		return clockTo24(m[1], "", m[2])
	}
	if m := dottedTimeRE.FindStringSubmatch(lower); m != nil {
		meridiem := "am"
		if m[3] == "p" {
			meridiem = "pm"
		}
		return clockTo24(m[1], m[2], meridiem)
	}

	return 0, 0, fmt.Errorf("booking: unrecognized time %q", rawTime)
}

func clockTo24(hourStr, minStr, meridiem string) (int, int, error) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 1 || hour > 12 {
		return 0, 0, fmt.Errorf("booking: hour %q out of range", hourStr)
	}
	minute := 0
	if minStr != "" {
		minute, err = strconv.Atoi(minStr)
		if err != nil || minute > 59 {
			return 0, 0, fmt.Errorf("booking: minute %q out of range", minStr)
		}
	}
	switch strings.ToLower(meridiem) {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour, minute, nil
}
