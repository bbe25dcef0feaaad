package service

import "github.com/modplan/modplan-api/internal/models"

// Hard search budgets. The result cap bounds the output set; the work cap
// bounds total search steps so adversarial inputs always terminate.
const (
	DefaultResultCap = 1000
	DefaultWorkCap   = 500000
)

// enumerator walks every assignment of one group per module depth-first,
// pruning as soon as a candidate group clashes with the path so far. All
// counters live on the value, so concurrent generations never share budgets.
type enumerator struct {
	modules   []models.ResolvedModule
	resultCap int
	workCap   int

	visits  int
	results []models.Combination
}

// enumerationOutcome reports the clash-free drafts plus budget telemetry.
// hasMore is true iff at least one clash-free assignment beyond the result
// cap was proven to exist; workCapHit flags a possibly incomplete search.
type enumerationOutcome struct {
	combinations []models.Combination
	hasMore      bool
	workCapHit   bool
	visits       int
}

func newEnumerator(modules []models.ResolvedModule, resultCap, workCap int) *enumerator {
	if resultCap <= 0 {
		resultCap = DefaultResultCap
	}
	if workCap <= 0 {
		workCap = DefaultWorkCap
	}
	return &enumerator{modules: modules, resultCap: resultCap, workCap: workCap}
}

// run performs the bounded depth-first search with an explicit stack. Branch
// order follows the order modules and groups were supplied, so identical
// input always yields identical output ordering.
func (e *enumerator) run() enumerationOutcome {
	out := enumerationOutcome{}
	n := len(e.modules)
	if n == 0 {
		return out
	}

	// The search probes for one result past the cap: finding it is the proof
	// that hasMore must be true.
	limit := e.resultCap + 1

	next := make([]int, n)   // next group index to try per depth
	chosen := make([]int, n) // group committed per depth above the cursor
	counts := make([]int, n) // sessions contributed per committed depth
	var sessions []models.ClassSession

	depth := 0
	for depth >= 0 {
		if len(e.results) >= limit {
			break
		}
		if e.visits >= e.workCap {
			out.workCapHit = true
			break
		}
		e.visits++

		groups := e.modules[depth].Groups
		if next[depth] >= len(groups) {
			next[depth] = 0
			depth--
			if depth >= 0 {
				sessions = sessions[:len(sessions)-counts[depth]]
			}
			continue
		}

		candidate := groups[next[depth]]
		next[depth]++
		if clashesWithPath(sessions, candidate.Sessions) {
			continue
		}

		if depth == n-1 {
			e.emit(chosen, candidate, sessions)
			continue
		}

		chosen[depth] = next[depth] - 1
		counts[depth] = len(candidate.Sessions)
		sessions = append(sessions, candidate.Sessions...)
		depth++
	}

	out.visits = e.visits
	out.combinations = e.results
	if len(out.combinations) > e.resultCap {
		out.combinations = out.combinations[:e.resultCap]
		out.hasMore = true
	}
	return out
}

func (e *enumerator) emit(chosen []int, leaf models.GroupOption, sessions []models.ClassSession) {
	n := len(e.modules)
	assignments := make(map[string]string, n)
	for d := 0; d < n-1; d++ {
		module := e.modules[d]
		assignments[module.Code] = module.Groups[chosen[d]].GroupID
	}
	assignments[e.modules[n-1].Code] = leaf.GroupID

	all := make([]models.ClassSession, 0, len(sessions)+len(leaf.Sessions))
	all = append(all, sessions...)
	all = append(all, leaf.Sessions...)

	e.results = append(e.results, models.Combination{
		Assignments: assignments,
		Sessions:    all,
	})
}

// clashesWithPath tests every session of the candidate group against every
// session already committed along the current path.
func clashesWithPath(path, candidate []models.ClassSession) bool {
	for _, incoming := range candidate {
		for _, existing := range path {
			if Conflicts(existing, incoming) {
				return true
			}
		}
	}
	return false
}
