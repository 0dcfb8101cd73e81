package store

import (
	"context"
)

// Driver is an interface for the source database driver.
// Each method runs one query against one of the source databases and
// releases the connection before returning.
type Driver interface {
	// ListSongMeta returns all rows of the track metadata relation.
	ListSongMeta(ctx context.Context) ([]*SongMeta, error)

	// ListTrackTags returns all (track, tag) pairs from the tag schema.
	ListTrackTags(ctx context.Context) ([]*TrackTag, error)

	// ListSimilarRows returns all rows of the similarity relation with
	// the target string unparsed.
	ListSimilarRows(ctx context.Context) ([]*SimilarRow, error)
}
