package sqlite

import (
	"context"
	"fmt"

	"github.com/danielemorotti/msdset/store"
)

func (d *DB) ListTrackTags(ctx context.Context) ([]*store.TrackTag, error) {
	db, err := d.openRead(d.profile.TagsDBPath())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	// The tag schema links tracks to tags through ROWID indirection
	// tables: tid_tag holds (tid ROWID, tag ROWID) pairs.
	rows, err := db.QueryContext(ctx, `
		SELECT tids.tid AS track_id, tags.tag
		FROM tid_tag, tids, tags
		WHERE tags.ROWID = tid_tag.tag AND tid_tag.tid = tids.ROWID`)
	if err != nil {
		return nil, fmt.Errorf("failed to query track tags: %w", err)
	}
	defer rows.Close()

	list := make([]*store.TrackTag, 0)
	for rows.Next() {
		var tag store.TrackTag
		if err := rows.Scan(
			&tag.TrackID,
			&tag.Tag,
		); err != nil {
			return nil, fmt.Errorf("failed to scan track tag: %w", err)
		}
		list = append(list, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate track tags: %w", err)
	}

	return list, nil
}
