package service

import (
	"strings"

	"github.com/modplan/modplan-api/internal/models"
)

var canonicalDays = map[string]string{
	"MON": "MON",
	"TUE": "TUE",
	"WED": "WED",
	"THU": "THU",
	"FRI": "FRI",
	"SAT": "SAT",
	"SUN": "SUN",
}

// canonicalDay reduces any supported day spelling ("Mon", "MONDAY", "monday")
// to its 3-letter form. Unknown days map to "".
func canonicalDay(day string) string {
	day = strings.ToUpper(strings.TrimSpace(day))
	if len(day) > 3 {
		day = day[:3]
	}
	return canonicalDays[day]
}

// sessionMinutes decodes a 4-digit "HHMM" session time into minute-of-day.
// Malformed values return -1.
func sessionMinutes(raw string) int {
	if len(raw) != 4 {
		return -1
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return -1
		}
	}
	hours := int(raw[0]-'0')*10 + int(raw[1]-'0')
	minutes := int(raw[2]-'0')*10 + int(raw[3]-'0')
	if hours > 23 || minutes > 59 {
		return -1
	}
	return hours*60 + minutes
}

// Conflicts reports whether two sessions collide. The checks run day, then
// time, then week so the common disjoint-day case exits first. Intervals are
// half-open: sessions touching at a boundary do not conflict. An empty week
// set applies to every offered week and therefore overlaps any week set.
func Conflicts(a, b models.ClassSession) bool {
	dayA := canonicalDay(a.Day)
	if dayA == "" || dayA != canonicalDay(b.Day) {
		return false
	}

	startA, endA := sessionMinutes(a.StartTime), sessionMinutes(a.EndTime)
	startB, endB := sessionMinutes(b.StartTime), sessionMinutes(b.EndTime)
	if startA < 0 || endA < 0 || startB < 0 || endB < 0 {
		return false
	}
	if startA >= endB || startB >= endA {
		return false
	}

	return weeksOverlap(a.Weeks, b.Weeks)
}

func weeksOverlap(a, b []int) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	set := make(map[int]struct{}, len(a))
	for _, week := range a {
		set[week] = struct{}{}
	}
	for _, week := range b {
		if _, ok := set[week]; ok {
			return true
		}
	}
	return false
}
