package repository

import (
	"context"
	"fmt"
)

// Store drivers accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Open returns the store for driver: a FileStore at path or a SQLiteStore at
// dsn. Unknown drivers yield ErrUnknownDriver.
func Open(ctx context.Context, driver, path, dsn string, opts ...Option) (WheelStore, error) {
	switch driver {
	case DriverSQLite:
		s, err := OpenSQLite(ctx, dsn, opts...)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	case DriverFile:
		s, err := NewFileStore(path, opts...)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
