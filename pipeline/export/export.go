// Package export writes the derived datasets to their fixed output
// files. Each writer fully materializes one stage result, so a partial
// run leaves only complete files behind.
package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/danielemorotti/msdset/pipeline/merge"
	"github.com/danielemorotti/msdset/pipeline/mxm"
	"github.com/danielemorotti/msdset/pipeline/simgraph"
	"github.com/danielemorotti/msdset/pipeline/split"
)

// Fixed output file names.
const (
	WordListFile   = "top_5000_words.txt"
	SongsFile      = "songs_data.csv"
	EvalFile       = "eval_similar_songs.csv"
	TrainingFile   = "training_songs_gnn.csv"
	ValidationFile = "validation_songs_gnn.csv"
)

// WriteWordList writes the vocabulary as a JSON-encoded list in a text
// file.
func WriteWordList(path string, vocab mxm.Vocabulary) error {
	data, err := json.Marshal(vocab.Words())
	if err != nil {
		return errors.Wrap(err, "failed to encode word list")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// WriteSongs writes the merged song table.
func WriteSongs(path string, songs []*merge.Song) error {
	records := make([][]string, 0, len(songs)+1)
	records = append(records, []string{"track_id", "title", "artist_name", "lyrics", "tag"})
	for _, s := range songs {
		records = append(records, []string{s.TrackID, s.Title, s.ArtistName, s.Lyrics, s.Tag})
	}
	return writeCSV(path, records)
}

// WriteEvalRows writes the evaluation table with comma-joined cleaned
// neighbor ids.
func WriteEvalRows(path string, rows []*simgraph.NeighborRow) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"track_id", "target"})
	for _, row := range rows {
		records = append(records, []string{row.TrackID, strings.Join(row.Neighbors, ",")})
	}
	return writeCSV(path, records)
}

// WriteGNNRows writes a GNN split with the two parallel comma-joined
// sequences.
func WriteGNNRows(path string, rows []*split.Row) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"track_id", "title", "artist_name", "lyrics", "tag", "similars", "sim_scores"})
	for _, row := range rows {
		records = append(records, []string{
			row.Song.TrackID,
			row.Song.Title,
			row.Song.ArtistName,
			row.Song.Lyrics,
			row.Song.Tag,
			strings.Join(row.Similars, ","),
			strings.Join(row.SimScores, ","),
		})
	}
	return writeCSV(path, records)
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", path)
	}
	return nil
}
