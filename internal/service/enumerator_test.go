package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modplan/modplan-api/internal/models"
)

func group(module, index string, sessions ...models.ClassSession) models.GroupOption {
	return models.GroupOption{ModuleCode: module, GroupID: index, Sessions: sessions}
}

// twoByTwoModules builds two modules with two groups each where every pairing
// is clash-free.
func twoByTwoModules() []models.ResolvedModule {
	return []models.ResolvedModule{
		{Code: "CS1010", Groups: []models.GroupOption{
			group("CS1010", "10001", session("MON", "0830", "1030")),
			group("CS1010", "10002", session("TUE", "0830", "1030")),
		}},
		{Code: "MA1101", Groups: []models.GroupOption{
			group("MA1101", "20001", session("WED", "0900", "1100")),
			group("MA1101", "20002", session("THU", "0900", "1100")),
		}},
	}
}

func TestEnumeratorFindsEveryCombination(t *testing.T) {
	outcome := newEnumerator(twoByTwoModules(), 0, 0).run()

	require.Len(t, outcome.combinations, 4)
	assert.False(t, outcome.hasMore)
	assert.False(t, outcome.workCapHit)

	for _, combination := range outcome.combinations {
		assert.Len(t, combination.Assignments, 2)
		assert.Len(t, combination.Sessions, 2)
		assert.Contains(t, combination.Assignments, "CS1010")
		assert.Contains(t, combination.Assignments, "MA1101")
	}
}

func TestEnumeratorDeterministicOrder(t *testing.T) {
	first := newEnumerator(twoByTwoModules(), 0, 0).run()
	second := newEnumerator(twoByTwoModules(), 0, 0).run()

	require.Equal(t, len(first.combinations), len(second.combinations))
	for i := range first.combinations {
		assert.Equal(t, first.combinations[i].Assignments, second.combinations[i].Assignments)
	}
}

func TestEnumeratorPrunesClashes(t *testing.T) {
	modules := []models.ResolvedModule{
		{Code: "CS1010", Groups: []models.GroupOption{
			group("CS1010", "10001", session("MON", "0830", "1030")),
		}},
		{Code: "MA1101", Groups: []models.GroupOption{
			group("MA1101", "20001", session("MON", "0900", "1100")),
			group("MA1101", "20002", session("MON", "1030", "1230")),
		}},
	}

	outcome := newEnumerator(modules, 0, 0).run()
	require.Len(t, outcome.combinations, 1)
	assert.Equal(t, "20002", outcome.combinations[0].Assignments["MA1101"])
}

func TestEnumeratorInfeasibleInput(t *testing.T) {
	modules := []models.ResolvedModule{
		{Code: "CS1010", Groups: []models.GroupOption{
			group("CS1010", "10001", session("MON", "0830", "1030")),
		}},
		{Code: "MA1101", Groups: []models.GroupOption{
			group("MA1101", "20001", session("MON", "0900", "1100")),
		}},
	}

	outcome := newEnumerator(modules, 0, 0).run()
	assert.Empty(t, outcome.combinations)
	assert.False(t, outcome.hasMore)
	assert.False(t, outcome.workCapHit)
}

func TestEnumeratorModuleWithNoGroups(t *testing.T) {
	modules := []models.ResolvedModule{
		{Code: "CS1010", Groups: []models.GroupOption{
			group("CS1010", "10001", session("MON", "0830", "1030")),
		}},
		{Code: "MA1101"},
	}

	outcome := newEnumerator(modules, 0, 0).run()
	assert.Empty(t, outcome.combinations, "a module with zero eligible groups admits no combination")
}

func TestEnumeratorNoModules(t *testing.T) {
	outcome := newEnumerator(nil, 0, 0).run()
	assert.Empty(t, outcome.combinations)
	assert.Zero(t, outcome.visits)
}

// manyGroupModules builds clash-free modules whose cross product exceeds any
// small cap: each module meets on its own day at group-specific times.
func manyGroupModules(moduleCount, groupCount int) []models.ResolvedModule {
	days := []string{"MON", "TUE", "WED", "THU", "FRI"}
	modules := make([]models.ResolvedModule, 0, moduleCount)
	for m := 0; m < moduleCount; m++ {
		code := fmt.Sprintf("CS%04d", 1000+m)
		groups := make([]models.GroupOption, 0, groupCount)
		for g := 0; g < groupCount; g++ {
			index := fmt.Sprintf("%05d", 10000+m*100+g)
			start := fmt.Sprintf("%02d00", 8+g)
			end := fmt.Sprintf("%02d00", 9+g)
			groups = append(groups, group(code, index, session(days[m%len(days)], start, end)))
		}
		modules = append(modules, models.ResolvedModule{Code: code, Groups: groups})
	}
	return modules
}

func TestEnumeratorResultCapSetsHasMore(t *testing.T) {
	// 3 modules x 4 groups = 64 combinations, capped at 10.
	outcome := newEnumerator(manyGroupModules(3, 4), 10, 0).run()

	assert.Len(t, outcome.combinations, 10)
	assert.True(t, outcome.hasMore)
	assert.False(t, outcome.workCapHit)
}

func TestEnumeratorResultCapExactFit(t *testing.T) {
	// Exactly 4 combinations with a cap of 4: no more exist, so hasMore stays false.
	outcome := newEnumerator(twoByTwoModules(), 4, 0).run()

	assert.Len(t, outcome.combinations, 4)
	assert.False(t, outcome.hasMore, "cap equal to the total must not report more")
}

func TestEnumeratorWorkCapStopsSearch(t *testing.T) {
	outcome := newEnumerator(manyGroupModules(4, 4), 1000, 20).run()

	assert.True(t, outcome.workCapHit)
	assert.LessOrEqual(t, outcome.visits, 20)
	assert.Less(t, len(outcome.combinations), 256)
}

func TestEnumeratorIndependentBudgets(t *testing.T) {
	modules := manyGroupModules(3, 4)
	first := newEnumerator(modules, 10, 0).run()
	second := newEnumerator(modules, 10, 0).run()

	assert.Equal(t, first.visits, second.visits, "budgets must not leak between runs")
	assert.Equal(t, len(first.combinations), len(second.combinations))
}
