package store

// SimilarRow is one row of similars_src in lastfm_similar_songs.db.
// Target is the source's flat alternating encoding
// "id1,score1,id2,score2,..." ordered by descending relevance.
type SimilarRow struct {
	TrackID string
	Target  string
}
