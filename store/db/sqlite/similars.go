package sqlite

import (
	"context"
	"fmt"

	"github.com/danielemorotti/msdset/store"
)

func (d *DB) ListSimilarRows(ctx context.Context) ([]*store.SimilarRow, error) {
	db, err := d.openRead(d.profile.SimilarsDBPath())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT tid, target
		FROM similars_src`)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar songs: %w", err)
	}
	defer rows.Close()

	list := make([]*store.SimilarRow, 0)
	for rows.Next() {
		var row store.SimilarRow
		if err := rows.Scan(
			&row.TrackID,
			&row.Target,
		); err != nil {
			return nil, fmt.Errorf("failed to scan similar row: %w", err)
		}
		list = append(list, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate similar rows: %w", err)
	}

	return list, nil
}
