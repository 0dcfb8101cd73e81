// Package merge joins the decoded word counts with the track metadata
// and Last.fm tag relations into one denormalized song table.
package merge

import (
	"github.com/danielemorotti/msdset/pipeline/mxm"
	"github.com/danielemorotti/msdset/store"
)

// Song is one row of the merged table: exactly one tag per track.
type Song struct {
	TrackID    string
	Title      string
	ArtistName string
	Lyrics     string
	Tag        string
}

// Merge inner-joins the word counts with the metadata relation on
// track_id, reconstructs the lyrics, inner-joins with the tag relation
// and deduplicates by track_id keeping the first occurrence. Tracks
// missing from either relation are dropped, which is data loss by
// design, not an error. Output order follows the word-count input
// order, so identical inputs produce identical output.
func Merge(records []*mxm.WordCount, vocab mxm.Vocabulary, meta []*store.SongMeta, tags []*store.TrackTag) ([]*Song, error) {
	metaByTrack := make(map[string]*store.SongMeta, len(meta))
	for _, m := range meta {
		if _, ok := metaByTrack[m.TrackID]; !ok {
			metaByTrack[m.TrackID] = m
		}
	}

	// First tag wins; further tags for the same track are dropped.
	tagByTrack := make(map[string]string, len(tags))
	for _, t := range tags {
		if _, ok := tagByTrack[t.TrackID]; !ok {
			tagByTrack[t.TrackID] = t.Tag
		}
	}

	songs := make([]*Song, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		if _, ok := seen[record.TrackID]; ok {
			continue
		}
		m, ok := metaByTrack[record.TrackID]
		if !ok {
			continue
		}
		tag, ok := tagByTrack[record.TrackID]
		if !ok {
			continue
		}
		lyrics, err := record.Lyrics(vocab)
		if err != nil {
			return nil, err
		}
		seen[record.TrackID] = struct{}{}
		songs = append(songs, &Song{
			TrackID:    record.TrackID,
			Title:      m.Title,
			ArtistName: m.ArtistName,
			Lyrics:     lyrics,
			Tag:        tag,
		})
	}
	return songs, nil
}

// TrackIDSet returns the set of track ids in songs.
func TrackIDSet(songs []*Song) map[string]struct{} {
	set := make(map[string]struct{}, len(songs))
	for _, s := range songs {
		set[s.TrackID] = struct{}{}
	}
	return set
}
