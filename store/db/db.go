package db

import (
	"github.com/pkg/errors"

	"github.com/careerlens/careerlens/internal/profile"
	"github.com/careerlens/careerlens/store"
	"github.com/careerlens/careerlens/store/db/postgres"
	"github.com/careerlens/careerlens/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
//
// PostgreSQL is the production driver; chunk embeddings live in a pgvector
// column. SQLite is for development and tests; embeddings are stored as JSON
// text through the shared codec.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'postgres' and 'sqlite' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
