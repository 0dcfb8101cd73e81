package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielemorotti/msdset/pipeline/merge"
	"github.com/danielemorotti/msdset/pipeline/mxm"
	"github.com/danielemorotti/msdset/pipeline/simgraph"
	"github.com/danielemorotti/msdset/pipeline/split"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteWordList(t *testing.T) {
	path := filepath.Join(t.TempDir(), WordListFile)
	vocab := mxm.NewVocabulary([]string{"i", "the", "you"})

	require.NoError(t, WriteWordList(path, vocab))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var words []string
	require.NoError(t, json.Unmarshal(data, &words))
	require.Equal(t, []string{"i", "the", "you"}, words)
}

func TestWriteSongs(t *testing.T) {
	path := filepath.Join(t.TempDir(), SongsFile)
	songs := []*merge.Song{
		{TrackID: "TR1", Title: "One, Two", ArtistName: "A", Lyrics: "la la la", Tag: "rock"},
	}

	require.NoError(t, WriteSongs(path, songs))

	records := readCSV(t, path)
	require.Equal(t, [][]string{
		{"track_id", "title", "artist_name", "lyrics", "tag"},
		{"TR1", "One, Two", "A", "la la la", "rock"},
	}, records)
}

func TestWriteEvalRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), EvalFile)
	rows := []*simgraph.NeighborRow{
		{TrackID: "TR1", Neighbors: []string{"TRA", "TRB", "TRC"}},
	}

	require.NoError(t, WriteEvalRows(path, rows))

	records := readCSV(t, path)
	require.Equal(t, [][]string{
		{"track_id", "target"},
		{"TR1", "TRA,TRB,TRC"},
	}, records)
}

func TestWriteGNNRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), TrainingFile)
	rows := []*split.Row{
		{
			Song:      &merge.Song{TrackID: "TR1", Title: "One", ArtistName: "A", Lyrics: "la", Tag: "rock"},
			Similars:  []string{"TRA", "TRB"},
			SimScores: []string{"1", "0.5"},
		},
	}

	require.NoError(t, WriteGNNRows(path, rows))

	records := readCSV(t, path)
	require.Equal(t, [][]string{
		{"track_id", "title", "artist_name", "lyrics", "tag", "similars", "sim_scores"},
		{"TR1", "One", "A", "la", "rock", "TRA,TRB", "1,0.5"},
	}, records)
}
