package auditservice

import (
	"context"
	"sync"

	"github.com/uptrace/bun"

	auditdb "github.com/zrl-league/zrl-manager/app/modules/audit/infrastructure/repositories"
)

// FakeAuditRepo keeps entries in memory, deduplicating on message id.
type FakeAuditRepo struct {
	mu      sync.Mutex
	trace   []string
	Entries []auditdb.Entry

	InsertErr error
	ListErr   error
	LastList  auditdb.EntryFilter
}

func (f *FakeAuditRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeAuditRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeAuditRepo) Insert(_ context.Context, _ bun.IDB, entry *auditdb.Entry) (bool, error) {
	f.record("Insert")
	if f.InsertErr != nil {
		return false, f.InsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.Entries {
		if e.MessageID == entry.MessageID {
			return false, nil
		}
	}
	f.Entries = append(f.Entries, *entry)
	return true, nil
}

func (f *FakeAuditRepo) List(_ context.Context, _ bun.IDB, filter auditdb.EntryFilter) ([]auditdb.Entry, error) {
	f.record("List")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastList = filter
	var out []auditdb.Entry
	for i := len(f.Entries) - 1; i >= 0 && (filter.Limit == 0 || len(out) < filter.Limit); i-- {
		if filter.Topic == "" || f.Entries[i].Topic == filter.Topic {
			out = append(out, f.Entries[i])
		}
	}
	return out, nil
}

var _ auditdb.Repository = (*FakeAuditRepo)(nil)
