package auditdb

import (
	"context"

	"github.com/uptrace/bun"
)

type Repository interface {
	// Insert stores entry unless its message id was already recorded. It
	// reports whether a row was written.
	Insert(ctx context.Context, db bun.IDB, entry *Entry) (bool, error)
	// List returns the newest entries first.
	List(ctx context.Context, db bun.IDB, filter EntryFilter) ([]Entry, error)
}
