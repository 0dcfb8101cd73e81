package db

import (
	"github.com/pkg/errors"

	"github.com/danielemorotti/msdset/internal/profile"
	"github.com/danielemorotti/msdset/store"
	"github.com/danielemorotti/msdset/store/db/sqlite"
)

// NewDBDriver creates a new source database driver based on profile.
// The upstream datasets ship as SQLite files, so SQLite is the only
// supported driver.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	driver, err := sqlite.NewDB(profile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
