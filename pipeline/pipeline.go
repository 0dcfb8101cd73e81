// Package pipeline sequences the dataset build: decode the word-count
// file, merge the relational sources, filter the similarity graph and
// build the GNN splits. Every stage fully materializes its result
// before the next one starts, and output files are written only at
// stage boundaries.
package pipeline

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/danielemorotti/msdset/internal/errors"
	"github.com/danielemorotti/msdset/internal/observability"
	"github.com/danielemorotti/msdset/internal/profile"
	"github.com/danielemorotti/msdset/pipeline/export"
	"github.com/danielemorotti/msdset/pipeline/merge"
	"github.com/danielemorotti/msdset/pipeline/mxm"
	"github.com/danielemorotti/msdset/pipeline/simgraph"
	"github.com/danielemorotti/msdset/pipeline/split"
	"github.com/danielemorotti/msdset/store"
)

// Runner executes the full build against one profile.
type Runner struct {
	profile *profile.Profile
	store   *store.Store
	run     *observability.RunContext
}

// NewRunner creates a Runner.
func NewRunner(profile *profile.Profile, store *store.Store, run *observability.RunContext) *Runner {
	return &Runner{
		profile: profile,
		store:   store,
		run:     run,
	}
}

// Run executes the pipeline once. Any parse or missing-resource error
// aborts the whole run; rows dropped by joins and filters are reported
// in the stage counts.
func (r *Runner) Run(ctx context.Context) error {
	dataset, err := r.decode()
	if err != nil {
		return err
	}

	songs, err := r.merge(ctx, dataset)
	if err != nil {
		return err
	}
	songIDs := merge.TrackIDSet(songs)

	simRows, err := r.parseSimilars(ctx, songIDs)
	if err != nil {
		return err
	}

	evalRows, err := r.buildEvalRows(simRows, songIDs)
	if err != nil {
		return err
	}
	evalIDs := make(map[string]struct{}, len(evalRows))
	for _, row := range evalRows {
		evalIDs[row.TrackID] = struct{}{}
	}

	// Evaluation sources leave the main song table.
	mainSongs := make([]*merge.Song, 0, len(songs))
	for _, s := range songs {
		if _, ok := evalIDs[s.TrackID]; !ok {
			mainSongs = append(mainSongs, s)
		}
	}

	sp := r.buildSplit(simRows, songs, evalIDs)

	if err := r.export(dataset.Vocabulary, mainSongs, evalRows, sp); err != nil {
		return err
	}

	r.run.Info("run complete",
		slog.Int64(observability.LogFieldDuration, r.run.Duration().Milliseconds()))
	return nil
}

// decode parses the musiXmatch word-count file.
func (r *Runner) decode() (*mxm.Dataset, error) {
	start := time.Now()
	f, err := os.Open(r.profile.MxmDatasetPath())
	if err != nil {
		return nil, apperrors.MissingResource(err, r.profile.MxmDatasetPath())
	}
	defer f.Close()

	dataset, err := mxm.ParseDataset(f, profile.MxmDatasetFile)
	if err != nil {
		return nil, err
	}
	r.run.StageDone("decode", start, len(dataset.Records), len(dataset.Records))
	return dataset, nil
}

// merge joins word counts, metadata and tags into the song table.
func (r *Runner) merge(ctx context.Context, dataset *mxm.Dataset) ([]*merge.Song, error) {
	start := time.Now()
	meta, err := r.store.ListSongMeta(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := r.store.ListTrackTags(ctx)
	if err != nil {
		return nil, err
	}
	songs, err := merge.Merge(dataset.Records, dataset.Vocabulary, meta, tags)
	if err != nil {
		return nil, err
	}
	r.run.StageDone("merge", start, len(dataset.Records), len(songs))
	return songs, nil
}

// parseSimilars loads and parses the similarity rows of merged songs.
func (r *Runner) parseSimilars(ctx context.Context, songIDs map[string]struct{}) ([]*simgraph.SourceRow, error) {
	start := time.Now()
	raw, err := r.store.ListSimilarRows(ctx)
	if err != nil {
		return nil, err
	}
	parsed, err := simgraph.ParseRows(raw, songIDs)
	if err != nil {
		return nil, err
	}
	r.run.StageDone("similarity_join", start, len(raw), len(parsed))
	return parsed, nil
}

// buildEvalRows applies the configured evaluation filter policy.
func (r *Runner) buildEvalRows(rows []*simgraph.SourceRow, songIDs map[string]struct{}) ([]*simgraph.NeighborRow, error) {
	start := time.Now()
	policy, err := simgraph.PolicyForName(r.profile.EvalPolicy)
	if err != nil {
		return nil, err
	}
	evalRows := policy.BuildEvalRows(rows, songIDs)
	r.run.Info("evaluation policy selected", slog.String("policy", policy.Name()))
	r.run.StageDone("evaluation_filter", start, len(rows), len(evalRows))
	return evalRows, nil
}

// buildSplit partitions the graph into the GNN training and validation
// sets.
func (r *Runner) buildSplit(rows []*simgraph.SourceRow, songs []*merge.Song, evalIDs map[string]struct{}) *split.Split {
	start := time.Now()
	seed := r.profile.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r.run.Info("sampling validation split",
		slog.Int64("seed", seed),
		slog.Float64("validation_size", r.profile.ValidationSize))

	rng := rand.New(rand.NewSource(seed))
	sp := split.Build(rows, songs, evalIDs, r.profile.ValidationSize, rng)
	r.run.StageDone("split", start, len(rows), len(sp.Training)+len(sp.Validation))
	return sp
}

// export writes all output files.
func (r *Runner) export(vocab mxm.Vocabulary, songs []*merge.Song, evalRows []*simgraph.NeighborRow, sp *split.Split) error {
	start := time.Now()
	out := r.profile.Output
	if err := export.WriteWordList(filepath.Join(out, export.WordListFile), vocab); err != nil {
		return err
	}
	if err := export.WriteSongs(filepath.Join(out, export.SongsFile), songs); err != nil {
		return err
	}
	if err := export.WriteEvalRows(filepath.Join(out, export.EvalFile), evalRows); err != nil {
		return err
	}
	if err := export.WriteGNNRows(filepath.Join(out, export.TrainingFile), sp.Training); err != nil {
		return err
	}
	if err := export.WriteGNNRows(filepath.Join(out, export.ValidationFile), sp.Validation); err != nil {
		return err
	}
	r.run.StageDone("export", start, len(songs)+len(evalRows)+len(sp.Training)+len(sp.Validation), len(songs)+len(evalRows)+len(sp.Training)+len(sp.Validation))
	return nil
}
