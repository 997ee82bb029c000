package store

import "fmt"

// ErrMigration table migration failure
func ErrMigration(err error) error {
	return fmt.Errorf("store: migration failed: %w", err)
}

// ErrStoreDirectory backing directory could not be prepared
func ErrStoreDirectory(err error) error {
	return fmt.Errorf("store: directory setup failed: %w", err)
}
