package storage

import (
	"fmt"

	"github.com/irsalhamdi/playstation-store/config"
	"github.com/irsalhamdi/playstation-store/database"
)

const DriverMemory = "memory"

// Open builds the storage selected by cfg. The returned close function
// releases the underlying database, if any.
func Open(cfg config.Storage) (Storage, func() error, error) {
	if cfg.Driver == DriverMemory {
		return NewMemory(), func() error { return nil }, nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}

	return NewSQL(db), db.Close, nil
}
