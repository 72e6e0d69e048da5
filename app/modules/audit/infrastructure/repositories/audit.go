package auditdb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

type Impl struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) Insert(ctx context.Context, db bun.IDB, entry *Entry) (bool, error) {
	db = r.resolveDB(db)
	res, err := db.NewInsert().
		Model(entry).
		On("CONFLICT (message_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to insert audit entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected for audit entry: %w", err)
	}
	return n > 0, nil
}

func (r *Impl) List(ctx context.Context, db bun.IDB, filter EntryFilter) ([]Entry, error) {
	db = r.resolveDB(db)
	var entries []Entry
	q := db.NewSelect().Model(&entries)
	if filter.Topic != "" {
		q = q.Where("ae.topic = ?", filter.Topic)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Order("ae.recorded_at DESC", "ae.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
