package service

import (
	"sort"
	"strings"

	"github.com/modplan/modplan-api/internal/dto"
	"github.com/modplan/modplan-api/internal/models"
)

// Venue strings containing any of these markers denote remote delivery.
var onlineVenueMarkers = []string{"online", "elearning", "e-learn", "remote", "virtual"}

var classTypeKeys = map[models.ClassType]string{
	models.ClassTypeLecture:  "lecture",
	models.ClassTypeTutorial: "tutorial",
	models.ClassTypeLab:      "lab",
	models.ClassTypeSeminar:  "seminar",
	models.ClassTypeProject:  "project",
	models.ClassTypeDesign:   "design",
}

var dayFilterKeys = map[string]string{
	"MON": "monday",
	"TUE": "tuesday",
	"WED": "wednesday",
	"THU": "thursday",
	"FRI": "friday",
	"SAT": "saturday",
	"SUN": "sunday",
}

func classTypeKey(t models.ClassType) string {
	if key, ok := classTypeKeys[t]; ok {
		return key
	}
	return strings.ToLower(string(t))
}

func isOnlineVenue(venue string) bool {
	venue = strings.ToLower(venue)
	for _, marker := range onlineVenueMarkers {
		if strings.Contains(venue, marker) {
			return true
		}
	}
	return false
}

// clockMinutes decodes a 24-hour "HH:MM" string into minute-of-day, -1 when
// malformed.
func clockMinutes(raw string) int {
	if len(raw) != 5 || raw[2] != ':' {
		return -1
	}
	return sessionMinutes(raw[:2] + raw[3:])
}

// consideredSessions returns the sessions whose class type participates in
// filtering and scoring. An empty type set considers everything.
func consideredSessions(sessions []models.ClassSession, types map[string]bool) []models.ClassSession {
	if len(types) == 0 {
		return sessions
	}
	considered := make([]models.ClassSession, 0, len(sessions))
	for _, session := range sessions {
		if types[classTypeKey(session.Type)] {
			considered = append(considered, session)
		}
	}
	return considered
}

// daySpan holds one considered session projected onto the minute axis.
type daySpan struct {
	start int
	end   int
}

// spansByDay groups considered sessions per canonical day, sorted by start.
// Sessions with malformed times are left out rather than failing the pass.
func spansByDay(sessions []models.ClassSession) map[string][]daySpan {
	byDay := make(map[string][]daySpan)
	for _, session := range sessions {
		day := canonicalDay(session.Day)
		start := sessionMinutes(session.StartTime)
		end := sessionMinutes(session.EndTime)
		if day == "" || start < 0 || end < 0 {
			continue
		}
		byDay[day] = append(byDay[day], daySpan{start: start, end: end})
	}
	for day := range byDay {
		spans := byDay[day]
		sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
		byDay[day] = spans
	}
	return byDay
}

// passesFilters applies every enabled preference axis to one combination.
// A combination survives only when all enabled rules hold.
func passesFilters(c models.Combination, f *dto.GenerationFilters) bool {
	if f == nil {
		return true
	}
	considered := consideredSessions(c.Sessions, f.ClassTypes)

	if !passesVenues(considered, f.Venues) {
		return false
	}
	if !passesDays(considered, f.Days) {
		return false
	}
	if !passesWindow(considered, f.EarliestStart, f.LatestEnd) {
		return false
	}
	return passesPerDayBounds(considered, f)
}

func passesVenues(sessions []models.ClassSession, venues dto.VenueFilter) bool {
	if venues.Online && venues.InPerson {
		return true
	}
	for _, session := range sessions {
		if isOnlineVenue(session.Venue) {
			if !venues.Online {
				return false
			}
		} else if !venues.InPerson {
			return false
		}
	}
	return true
}

func passesDays(sessions []models.ClassSession, days map[string]bool) bool {
	if len(days) == 0 || allDaysEnabled(days) {
		return true
	}
	for _, session := range sessions {
		key := dayFilterKeys[canonicalDay(session.Day)]
		if key != "" && !days[key] {
			return false
		}
	}
	return true
}

func allDaysEnabled(days map[string]bool) bool {
	for _, key := range dayFilterKeys {
		if !days[key] {
			return false
		}
	}
	return true
}

func passesWindow(sessions []models.ClassSession, earliest, latest dto.TimeBoundFilter) bool {
	earliestBound := -1
	if earliest.Enabled {
		earliestBound = clockMinutes(earliest.Time)
	}
	latestBound := -1
	if latest.Enabled {
		latestBound = clockMinutes(latest.Time)
	}
	if earliestBound < 0 && latestBound < 0 {
		return true
	}
	for _, session := range sessions {
		start := sessionMinutes(session.StartTime)
		end := sessionMinutes(session.EndTime)
		if start < 0 || end < 0 {
			continue
		}
		if earliestBound >= 0 && start < earliestBound {
			return false
		}
		if latestBound >= 0 && end > latestBound {
			return false
		}
	}
	return true
}

// passesPerDayBounds evaluates the day-duration, consecutive-class-count and
// inter-class-gap ranges over each calendar day of the combination.
func passesPerDayBounds(sessions []models.ClassSession, f *dto.GenerationFilters) bool {
	if !f.DayDuration.Enabled && !f.ConsecutiveClasses.Enabled && !f.ClassGap.Enabled {
		return true
	}
	for _, spans := range spansByDay(sessions) {
		if f.DayDuration.Enabled {
			span := dayDurationMinutes(spans)
			if span < f.DayDuration.Min || span > f.DayDuration.Max {
				return false
			}
		}
		if f.ConsecutiveClasses.Enabled {
			run := longestBackToBackRun(spans)
			if run < f.ConsecutiveClasses.Min || run > f.ConsecutiveClasses.Max {
				return false
			}
		}
		if f.ClassGap.Enabled {
			for _, gap := range gapsBetween(spans) {
				if gap < f.ClassGap.Min || gap > f.ClassGap.Max {
					return false
				}
			}
		}
	}
	return true
}

func dayDurationMinutes(spans []daySpan) int {
	if len(spans) == 0 {
		return 0
	}
	earliest := spans[0].start
	latest := spans[0].end
	for _, span := range spans[1:] {
		if span.end > latest {
			latest = span.end
		}
	}
	return latest - earliest
}

func longestBackToBackRun(spans []daySpan) int {
	if len(spans) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(spans); i++ {
		if spans[i].start == spans[i-1].end {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func gapsBetween(spans []daySpan) []int {
	if len(spans) < 2 {
		return nil
	}
	gaps := make([]int, 0, len(spans)-1)
	for i := 1; i < len(spans); i++ {
		gap := spans[i].start - spans[i-1].end
		if gap < 0 {
			gap = 0
		}
		gaps = append(gaps, gap)
	}
	return gaps
}
