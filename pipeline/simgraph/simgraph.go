// Package simgraph parses the Last.fm similarity relation and narrows
// it against track membership sets. Neighbor lists are ordered by
// descending relevance and every filter here preserves that order,
// because mean-average-precision scoring depends on the original rank
// of each neighbor.
package simgraph

import (
	"strconv"
	"strings"

	apperrors "github.com/danielemorotti/msdset/internal/errors"
	"github.com/danielemorotti/msdset/store"
)

// Neighbor-count thresholds applied while narrowing the graph.
const (
	// MinRawNeighbors is the minimum raw list length for a source row
	// to enter the evaluation candidate pool.
	MinRawNeighbors = 250
	// MinFilteredNeighbors is the minimum list length after the first
	// membership filter.
	MinFilteredNeighbors = 125
	// MinFinalNeighbors is the minimum list length after evaluation
	// sources themselves are removed from the membership set.
	MinFinalNeighbors = 106
)

// Edge is one similarity edge: a neighbor track and its score.
type Edge struct {
	TrackID string
	Score   float64
}

// SourceRow is the parsed, ordered neighbor list of one source track.
type SourceRow struct {
	TrackID string
	Edges   []Edge
}

// NeighborIDs returns the neighbor track ids in relevance order.
func (r *SourceRow) NeighborIDs() []string {
	ids := make([]string, len(r.Edges))
	for i, e := range r.Edges {
		ids[i] = e.TrackID
	}
	return ids
}

// ScoreStrings returns the edge scores in relevance order, formatted
// with the shortest representation that round-trips the value.
func (r *SourceRow) ScoreStrings() []string {
	scores := make([]string, len(r.Edges))
	for i, e := range r.Edges {
		scores[i] = strconv.FormatFloat(e.Score, 'g', -1, 64)
	}
	return scores
}

// NeighborRow is a source track with its cleaned neighbor id list.
type NeighborRow struct {
	TrackID   string
	Neighbors []string
}

// ParseEdges decodes the flat alternating "id1,score1,id2,score2,..."
// encoding. An odd token count or a non-numeric score aborts with a
// parse error naming the source track.
func ParseEdges(target string, trackID string) ([]Edge, error) {
	tokens := strings.Split(target, ",")
	if len(tokens)%2 != 0 {
		return nil, apperrors.New(apperrors.ErrCodeParse, "similarity list has odd token count %d", len(tokens)).
			WithContext("source", trackID)
	}
	edges := make([]Edge, 0, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		score, err := strconv.ParseFloat(tokens[i+1], 64)
		if err != nil {
			return nil, apperrors.New(apperrors.ErrCodeParse, "non-numeric similarity score %q", tokens[i+1]).
				WithContext("source", trackID)
		}
		edges = append(edges, Edge{TrackID: tokens[i], Score: score})
	}
	return edges, nil
}

// ParseRows inner-joins the raw similarity relation with the song id
// set and parses each retained target string. Rows whose source track
// is not in songIDs are dropped by design; malformed rows abort.
func ParseRows(rows []*store.SimilarRow, songIDs map[string]struct{}) ([]*SourceRow, error) {
	parsed := make([]*SourceRow, 0, len(rows))
	for _, row := range rows {
		if _, ok := songIDs[row.TrackID]; !ok {
			continue
		}
		edges, err := ParseEdges(row.Target, row.TrackID)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, &SourceRow{TrackID: row.TrackID, Edges: edges})
	}
	return parsed, nil
}

// StableFilter restricts ids to the members of keep while preserving
// the original relative order. Duplicate ids keep their first
// occurrence only.
func StableFilter(ids []string, keep map[string]struct{}) []string {
	filtered := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := keep[id]; !ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		filtered = append(filtered, id)
	}
	return filtered
}

// FilterPair applies StableFilter to ids while keeping scores aligned:
// the score of every surviving neighbor stays at the same position as
// its id.
func FilterPair(ids, scores []string, keep map[string]struct{}) ([]string, []string) {
	filteredIDs := make([]string, 0, len(ids))
	filteredScores := make([]string, 0, len(scores))
	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		if _, ok := keep[id]; !ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		filteredIDs = append(filteredIDs, id)
		filteredScores = append(filteredScores, scores[i])
	}
	return filteredIDs, filteredScores
}
