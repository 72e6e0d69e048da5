package auditservice

import (
	"context"

	auditdb "github.com/zrl-league/zrl-manager/app/modules/audit/infrastructure/repositories"
)

// Service stores and lists observed domain events.
type Service interface {
	Record(ctx context.Context, event Event) (bool, error)
	ListEntries(ctx context.Context, topic string, limit int) ([]auditdb.Entry, error)
}

// Event is one bus message handed to Record.
type Event struct {
	Topic         string
	MessageID     string
	CorrelationID string
	Payload       []byte
}
