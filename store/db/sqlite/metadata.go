package sqlite

import (
	"context"
	"fmt"

	"github.com/danielemorotti/msdset/store"
)

func (d *DB) ListSongMeta(ctx context.Context) ([]*store.SongMeta, error) {
	db, err := d.openRead(d.profile.MetadataDBPath())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT track_id, title, artist_name
		FROM songs`)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	list := make([]*store.SongMeta, 0)
	for rows.Next() {
		var meta store.SongMeta
		if err := rows.Scan(
			&meta.TrackID,
			&meta.Title,
			&meta.ArtistName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan song metadata: %w", err)
		}
		list = append(list, &meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate song metadata: %w", err)
	}

	return list, nil
}
