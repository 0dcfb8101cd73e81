package simgraph

import (
	"github.com/pkg/errors"
)

// EvaluationFilterPolicy selects the evaluation sources and cleans
// their neighbor lists. Two historical variants of this stage exist
// with different membership sets and thresholds; they are kept as
// explicit policies instead of being merged.
type EvaluationFilterPolicy interface {
	Name() string
	// BuildEvalRows narrows rows into the evaluation table. songIDs is
	// the track id set of the merged song table.
	BuildEvalRows(rows []*SourceRow, songIDs map[string]struct{}) []*NeighborRow
}

// PolicyForName returns the policy registered under name.
func PolicyForName(name string) (EvaluationFilterPolicy, error) {
	switch name {
	case "two-pass":
		return TwoPassPolicy{}, nil
	case "single-pass":
		return SinglePassPolicy{}, nil
	default:
		return nil, errors.Errorf("unknown evaluation filter policy %q", name)
	}
}

// TwoPassPolicy is the default variant. It filters candidate neighbor
// lists against the full song set at the 125 threshold, then removes
// the candidates' own ids from the membership set and re-checks at
// 106. The second pass reuses the already-filtered lists, so the
// expensive full intersection runs only once.
type TwoPassPolicy struct{}

func (TwoPassPolicy) Name() string { return "two-pass" }

func (TwoPassPolicy) BuildEvalRows(rows []*SourceRow, songIDs map[string]struct{}) []*NeighborRow {
	candidates := candidatePool(rows)

	// First pass: keep neighbors present in the song table.
	kept := make([]*NeighborRow, 0, len(candidates))
	for _, row := range candidates {
		filtered := StableFilter(row.Neighbors, songIDs)
		if len(filtered) >= MinFilteredNeighbors {
			kept = append(kept, &NeighborRow{TrackID: row.TrackID, Neighbors: filtered})
		}
	}

	// Second pass: the surviving sources are the evaluation set, and
	// their lyrics rows leave the main dataset, so neighbors pointing
	// at them have to go too.
	remaining := subtractRows(songIDs, kept)
	out := make([]*NeighborRow, 0, len(kept))
	for _, row := range kept {
		filtered := StableFilter(row.Neighbors, remaining)
		if len(filtered) >= MinFinalNeighbors {
			out = append(out, &NeighborRow{TrackID: row.TrackID, Neighbors: filtered})
		}
	}
	return out
}

// SinglePassPolicy is the variant that excludes every candidate source
// id from the membership set up front and applies only the 125
// threshold.
type SinglePassPolicy struct{}

func (SinglePassPolicy) Name() string { return "single-pass" }

func (SinglePassPolicy) BuildEvalRows(rows []*SourceRow, songIDs map[string]struct{}) []*NeighborRow {
	candidates := candidatePool(rows)

	remaining := subtractRows(songIDs, candidates)
	out := make([]*NeighborRow, 0, len(candidates))
	for _, row := range candidates {
		filtered := StableFilter(row.Neighbors, remaining)
		if len(filtered) >= MinFilteredNeighbors {
			out = append(out, &NeighborRow{TrackID: row.TrackID, Neighbors: filtered})
		}
	}
	return out
}

// candidatePool keeps the rows with enough raw signal for evaluation
// and strips the scores, leaving ordered neighbor ids.
func candidatePool(rows []*SourceRow) []*NeighborRow {
	pool := make([]*NeighborRow, 0, len(rows))
	for _, row := range rows {
		if len(row.Edges) < MinRawNeighbors {
			continue
		}
		pool = append(pool, &NeighborRow{TrackID: row.TrackID, Neighbors: row.NeighborIDs()})
	}
	return pool
}

// subtractRows returns a copy of ids without the source track ids of rows.
func subtractRows(ids map[string]struct{}, rows []*NeighborRow) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for id := range ids {
		out[id] = struct{}{}
	}
	for _, row := range rows {
		delete(out, row.TrackID)
	}
	return out
}
