package store

import (
	"context"

	"github.com/danielemorotti/msdset/internal/profile"
)

// Store provides access to the raw source relations.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

// ListSongMeta returns all rows of the track metadata relation.
func (s *Store) ListSongMeta(ctx context.Context) ([]*SongMeta, error) {
	return s.driver.ListSongMeta(ctx)
}

// ListTrackTags returns all (track, tag) pairs from the tag schema.
func (s *Store) ListTrackTags(ctx context.Context) ([]*TrackTag, error) {
	return s.driver.ListTrackTags(ctx)
}

// ListSimilarRows returns all rows of the similarity relation.
func (s *Store) ListSimilarRows(ctx context.Context) ([]*SimilarRow, error) {
	return s.driver.ListSimilarRows(ctx)
}
