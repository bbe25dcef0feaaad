package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modplan/modplan-api/internal/dto"
	"github.com/modplan/modplan-api/internal/models"
)

func TestComputeStats(t *testing.T) {
	c := combinationOf(
		session("MON", "0830", "1030"),
		session("MON", "1130", "1230"),
		session("WED", "1400", "1600"),
	)

	stats := computeStats(c, permissiveFilters())

	assert.Equal(t, 2, stats.DistinctDays)
	assert.Equal(t, 5.0, stats.WeeklyHours)
	assert.Equal(t, 60.0, stats.AvgGapMinutes)
	assert.Equal(t, "08:30", stats.EarliestStart)
	assert.Equal(t, "16:00", stats.LatestEnd)
}

func TestComputeStatsIgnoresDisabledTypes(t *testing.T) {
	lab := session("FRI", "0900", "1200")
	lab.Type = models.ClassTypeLab

	f := permissiveFilters()
	f.ClassTypes["lab"] = false

	stats := computeStats(combinationOf(session("MON", "0900", "1000"), lab), f)
	assert.Equal(t, 1, stats.DistinctDays)
	assert.Equal(t, 1.0, stats.WeeklyHours)
}

func TestComputeStatsEmptyCombination(t *testing.T) {
	stats := computeStats(models.Combination{}, permissiveFilters())
	assert.Zero(t, stats.DistinctDays)
	assert.Zero(t, stats.WeeklyHours)
	assert.Empty(t, stats.EarliestStart)
}

func TestScoreMinimizeDaysPrefersFewerDays(t *testing.T) {
	f := permissiveFilters()
	f.Goals.MinimizeDays = true
	f.LoadPreference = ""

	compact := combinationOf(
		session("MON", "0800", "1000"),
		session("MON", "1000", "1200"),
	)
	spread := combinationOf(
		session("MON", "0800", "1000"),
		session("WED", "1000", "1200"),
	)

	assert.Greater(t, scoreCombination(compact, f), scoreCombination(spread, f))
}

func TestScoreBalanceWorkloadPrefersEvenLoad(t *testing.T) {
	f := permissiveFilters()
	f.Goals.BalanceWorkload = true
	f.LoadPreference = ""

	even := combinationOf(
		session("MON", "0800", "1000"),
		session("TUE", "0800", "1000"),
	)
	lopsided := combinationOf(
		session("MON", "0800", "1130"),
		session("TUE", "0800", "0830"),
	)

	assert.Greater(t, scoreCombination(even, f), scoreCombination(lopsided, f))
}

func TestScoreConsecutiveDaysPenalisesGaps(t *testing.T) {
	f := permissiveFilters()
	f.Goals.ConsecutiveDays = true
	f.LoadPreference = ""

	contiguous := combinationOf(
		session("MON", "0800", "1000"),
		session("TUE", "0800", "1000"),
	)
	broken := combinationOf(
		session("MON", "0800", "1000"),
		session("WED", "0800", "1000"),
	)

	assert.Greater(t, scoreCombination(contiguous, f), scoreCombination(broken, f))
}

func TestScoreLoadPreferenceShapesSpread(t *testing.T) {
	lopsided := combinationOf(
		session("MON", "0800", "1200"),
		session("TUE", "0800", "0900"),
	)

	skewed := permissiveFilters()
	skewed.LoadPreference = dto.LoadPreferenceSkewed
	balanced := permissiveFilters()
	balanced.LoadPreference = dto.LoadPreferenceBalanced

	assert.Greater(t, scoreCombination(lopsided, skewed), scoreCombination(lopsided, balanced))
}

func TestScoreNoGoalsIsBaseline(t *testing.T) {
	f := permissiveFilters()
	f.LoadPreference = ""

	c := combinationOf(session("MON", "0800", "1000"))
	assert.Equal(t, scoreBaseline, scoreCombination(c, f))
}

func TestRankCombinationsOrder(t *testing.T) {
	combinations := []models.Combination{
		{Score: 90, Stats: models.CombinationStats{WeeklyHours: 10}},
		{Score: 95, Stats: models.CombinationStats{WeeklyHours: 12}},
		{Score: 90, Stats: models.CombinationStats{WeeklyHours: 8}},
	}

	rankCombinations(combinations)

	require.Len(t, combinations, 3)
	assert.Equal(t, 95.0, combinations[0].Score)
	assert.Equal(t, 8.0, combinations[1].Stats.WeeklyHours, "score ties break on lower weekly hours")
	assert.Equal(t, 10.0, combinations[2].Stats.WeeklyHours)
}

func TestRankCombinationsStable(t *testing.T) {
	combinations := []models.Combination{
		{Assignments: map[string]string{"CS1010": "10001"}, Score: 90, Stats: models.CombinationStats{WeeklyHours: 10}},
		{Assignments: map[string]string{"CS1010": "10002"}, Score: 90, Stats: models.CombinationStats{WeeklyHours: 10}},
	}

	rankCombinations(combinations)

	assert.Equal(t, "10001", combinations[0].Assignments["CS1010"], "full ties keep emission order")
}

func TestUsedDaysContiguous(t *testing.T) {
	contiguous := spansByDay([]models.ClassSession{
		session("MON", "0800", "0900"),
		session("TUE", "0800", "0900"),
		session("WED", "0800", "0900"),
	})
	assert.True(t, usedDaysContiguous(contiguous))

	broken := spansByDay([]models.ClassSession{
		session("MON", "0800", "0900"),
		session("WED", "0800", "0900"),
	})
	assert.False(t, usedDaysContiguous(broken))
}
