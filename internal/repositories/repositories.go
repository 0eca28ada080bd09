// package repositories provides persistence layer implementations for all model types.
package repositories

import (
	"database/sql"

	"github.com/desertthunder/tracklist/internal/models"
)

// Repository is the read/write surface shared by the repositories in this package.
type Repository[T models.Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	List(criteria map[string]any) ([]T, error)
}

var _ Repository[*models.Snapshot] = (*SnapshotRepository)(nil)

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

var (
	_ scanner = (*sql.Row)(nil)
	_ scanner = (*sql.Rows)(nil)
)
