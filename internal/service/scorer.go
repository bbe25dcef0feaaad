package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/modplan/modplan-api/internal/dto"
	"github.com/modplan/modplan-api/internal/models"
)

// Scoring starts from a neutral baseline and applies one adjustment per
// enabled goal. Weights are tuned so a single goal shifts a typical five-day
// candidate by tens of points without ever dominating the others outright.
const (
	scoreBaseline        = 100.0
	minimizeDaysWeight   = 8.0
	balanceSpreadDivisor = 15.0
	loadShapeDivisor     = 20.0
	brokenContiguityCost = 25.0
)

var dayRanks = map[string]int{
	"MON": 1,
	"TUE": 2,
	"WED": 3,
	"THU": 4,
	"FRI": 5,
	"SAT": 6,
	"SUN": 7,
}

// computeStats derives the display statistics for one combination from its
// considered sessions. Stats are computed regardless of which goals are set.
func computeStats(c models.Combination, f *dto.GenerationFilters) models.CombinationStats {
	var types map[string]bool
	if f != nil {
		types = f.ClassTypes
	}
	considered := consideredSessions(c.Sessions, types)
	byDay := spansByDay(considered)

	stats := models.CombinationStats{DistinctDays: len(byDay)}

	totalMinutes := 0
	earliest, latest := -1, -1
	var gaps []int
	for _, spans := range byDay {
		for _, span := range spans {
			totalMinutes += span.end - span.start
			if earliest < 0 || span.start < earliest {
				earliest = span.start
			}
			if span.end > latest {
				latest = span.end
			}
		}
		gaps = append(gaps, gapsBetween(spans)...)
	}

	stats.WeeklyHours = math.Round(float64(totalMinutes)/60.0*100) / 100
	if len(gaps) > 0 {
		sum := 0
		for _, gap := range gaps {
			sum += gap
		}
		stats.AvgGapMinutes = math.Round(float64(sum)/float64(len(gaps))*100) / 100
	}
	if earliest >= 0 {
		stats.EarliestStart = formatClock(earliest)
		stats.LatestEnd = formatClock(latest)
	}
	return stats
}

// scoreCombination folds the enabled generation goals into a single ordering
// value. Higher is better.
func scoreCombination(c models.Combination, f *dto.GenerationFilters) float64 {
	score := scoreBaseline
	if f == nil {
		return score
	}

	considered := consideredSessions(c.Sessions, f.ClassTypes)
	byDay := spansByDay(considered)
	if len(byDay) == 0 {
		return score
	}

	spread := perDayLoadSpread(byDay)

	if f.Goals.MinimizeDays {
		score -= minimizeDaysWeight * float64(len(byDay)-1)
	}
	if f.Goals.BalanceWorkload {
		score -= spread / balanceSpreadDivisor
	}
	if f.Goals.ConsecutiveDays && !usedDaysContiguous(byDay) {
		score -= brokenContiguityCost
	}
	switch f.LoadPreference {
	case dto.LoadPreferenceSkewed:
		score += spread / loadShapeDivisor
	case dto.LoadPreferenceBalanced:
		score -= spread / loadShapeDivisor
	}
	return score
}

// rankCombinations orders combinations by descending score, breaking ties by
// lower weekly hours and then by the enumerator's emission order.
func rankCombinations(combinations []models.Combination) {
	sort.SliceStable(combinations, func(i, j int) bool {
		if combinations[i].Score != combinations[j].Score {
			return combinations[i].Score > combinations[j].Score
		}
		return combinations[i].Stats.WeeklyHours < combinations[j].Stats.WeeklyHours
	})
}

// perDayLoadSpread is the population standard deviation of scheduled minutes
// across the used days.
func perDayLoadSpread(byDay map[string][]daySpan) float64 {
	if len(byDay) == 0 {
		return 0
	}
	loads := make([]float64, 0, len(byDay))
	total := 0.0
	for _, spans := range byDay {
		minutes := 0.0
		for _, span := range spans {
			minutes += float64(span.end - span.start)
		}
		loads = append(loads, minutes)
		total += minutes
	}
	mean := total / float64(len(loads))
	variance := 0.0
	for _, minutes := range loads {
		variance += (minutes - mean) * (minutes - mean)
	}
	return math.Sqrt(variance / float64(len(loads)))
}

// usedDaysContiguous reports whether the used days form one unbroken block,
// i.e. no free day sits between two days that hold classes.
func usedDaysContiguous(byDay map[string][]daySpan) bool {
	lowest, highest := 8, 0
	for day := range byDay {
		rank := dayRanks[day]
		if rank == 0 {
			continue
		}
		if rank < lowest {
			lowest = rank
		}
		if rank > highest {
			highest = rank
		}
	}
	if highest == 0 {
		return true
	}
	return highest-lowest+1 == len(byDay)
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
