package sqlite

import (
	"database/sql"
	"os"

	"github.com/pkg/errors"

	// SQLite driver.
	_ "modernc.org/sqlite"

	apperrors "github.com/danielemorotti/msdset/internal/errors"
	"github.com/danielemorotti/msdset/internal/profile"
)

// DB reads the three source databases. Connections are opened read-only
// per query and closed before the caller continues, so no handle is held
// across pipeline stages.
type DB struct {
	profile *profile.Profile
}

// NewDB verifies that all source database files exist and returns a new DB.
func NewDB(profile *profile.Profile) (*DB, error) {
	for _, path := range []string{
		profile.MetadataDBPath(),
		profile.TagsDBPath(),
		profile.SimilarsDBPath(),
	} {
		if _, err := os.Stat(path); err != nil {
			return nil, apperrors.MissingResource(err, path)
		}
	}
	return &DB{profile: profile}, nil
}

// openRead opens a read-only connection to the database at path.
func (d *DB) openRead(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite db with path %s", path)
	}
	return db, nil
}
