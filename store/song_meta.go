package store

// SongMeta is one row of the track metadata relation
// (songs(track_id, title, artist_name) in mxm_metadata.db).
type SongMeta struct {
	TrackID    string
	Title      string
	ArtistName string
}
