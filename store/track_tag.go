package store

// TrackTag is one (track, tag) pair from the Last.fm tag schema, produced
// by joining tid_tag with the tids and tags indirection tables.
// A track may appear with zero, one, or many tags.
type TrackTag struct {
	TrackID string
	Tag     string
}
