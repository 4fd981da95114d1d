// Package stats implements the ExecutionStats accumulator of spec.md §6,
// generalizing the teacher's per-protocol-search stats counter
// (types/stats.go's GetStats().IncProtocolSearch) to the AQL stat set.
package stats

// ExecutionStats accumulates per-call statistics that the driver merges
// into the running query total (spec.md §6).
type ExecutionStats struct {
	WritesExecuted int64
	WritesIgnored  int64
	ScannedFull    int64
	ScannedIndex   int64
	Filtered       int64
	Requests       int64
	FullCount      int64
	Count          int64
}

// Merge additively folds other into s, the rule spec.md §9 names for
// LimitStats.fullCount ("merged additively ... not overwritten") and
// generalized here to every field.
func (s *ExecutionStats) Merge(other ExecutionStats) {
	s.WritesExecuted += other.WritesExecuted
	s.WritesIgnored += other.WritesIgnored
	s.ScannedFull += other.ScannedFull
	s.ScannedIndex += other.ScannedIndex
	s.Filtered += other.Filtered
	s.Requests += other.Requests
	s.FullCount += other.FullCount
	s.Count += other.Count
}
