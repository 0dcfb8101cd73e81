// Package split partitions the similarity graph into training and
// validation sets for GNN training, with no leakage from the
// evaluation set and no dangling edges inside the training graph.
package split

import (
	"math"
	"math/rand"

	"github.com/danielemorotti/msdset/pipeline/merge"
	"github.com/danielemorotti/msdset/pipeline/simgraph"
)

// Row is one song of a GNN split with its aligned neighbor id and
// score sequences.
type Row struct {
	Song      *merge.Song
	Similars  []string
	SimScores []string
}

// Split holds the two disjoint GNN row sets.
type Split struct {
	Training   []*Row
	Validation []*Row
}

// Build partitions the parsed similarity rows into training and
// validation sets. Evaluation sources are excluded first, then
// validationSize of the remaining rows are sampled into validation
// without replacement using rng. Neighbor lists of both sets are
// restricted to the training node set with the order-preserving filter,
// keeping ids and scores aligned; rows left without neighbors are
// dropped and the training graph is re-pruned until every remaining
// edge targets a remaining training row.
func Build(rows []*simgraph.SourceRow, songs []*merge.Song, evalIDs map[string]struct{}, validationSize float64, rng *rand.Rand) *Split {
	songByID := make(map[string]*merge.Song, len(songs))
	for _, s := range songs {
		songByID[s.TrackID] = s
	}

	pool := make([]*Row, 0, len(rows))
	for _, row := range rows {
		if _, ok := evalIDs[row.TrackID]; ok {
			continue
		}
		song, ok := songByID[row.TrackID]
		if !ok {
			continue
		}
		pool = append(pool, &Row{
			Song:      song,
			Similars:  row.NeighborIDs(),
			SimScores: row.ScoreStrings(),
		})
	}

	training, validation := sample(pool, validationSize, rng)

	// Prune the training graph until it is self-contained: dropping an
	// empty row shrinks the node set, which can empty further rows.
	for {
		trainIDs := trackIDSet(training)
		kept := make([]*Row, 0, len(training))
		for _, row := range training {
			row.Similars, row.SimScores = simgraph.FilterPair(row.Similars, row.SimScores, trainIDs)
			if len(row.Similars) == 0 {
				continue
			}
			kept = append(kept, row)
		}
		done := len(kept) == len(training)
		training = kept
		if done {
			break
		}
	}

	// Validation edges may point at training nodes only.
	trainIDs := trackIDSet(training)
	keptValidation := make([]*Row, 0, len(validation))
	for _, row := range validation {
		row.Similars, row.SimScores = simgraph.FilterPair(row.Similars, row.SimScores, trainIDs)
		if len(row.Similars) == 0 {
			continue
		}
		keptValidation = append(keptValidation, row)
	}

	return &Split{Training: training, Validation: keptValidation}
}

// sample draws round(fraction*len(pool)) rows into the second return
// value without replacement. Both returned slices preserve the pool
// order, so a fixed rng seed reproduces the split exactly.
func sample(pool []*Row, fraction float64, rng *rand.Rand) ([]*Row, []*Row) {
	k := int(math.Round(float64(len(pool)) * fraction))
	if k <= 0 {
		return pool, nil
	}
	picked := make(map[int]struct{}, k)
	for _, idx := range rng.Perm(len(pool))[:k] {
		picked[idx] = struct{}{}
	}

	rest := make([]*Row, 0, len(pool)-k)
	sampled := make([]*Row, 0, k)
	for i, row := range pool {
		if _, ok := picked[i]; ok {
			sampled = append(sampled, row)
		} else {
			rest = append(rest, row)
		}
	}
	return rest, sampled
}

func trackIDSet(rows []*Row) map[string]struct{} {
	set := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		set[row.Song.TrackID] = struct{}{}
	}
	return set
}
