package auditdb

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entry is one domain event as it was seen on the bus.
type Entry struct {
	bun.BaseModel `bun:"table:audit_entries,alias:ae"`

	ID            uuid.UUID       `bun:"id,pk,type:uuid" json:"id"`
	MessageID     string          `bun:"message_id,notnull" json:"message_id"`
	Topic         string          `bun:"topic,notnull" json:"topic"`
	CorrelationID string          `bun:"correlation_id,nullzero" json:"correlation_id,omitempty"`
	Payload       json.RawMessage `bun:"payload,type:jsonb,notnull" json:"payload"`
	RecordedAt    time.Time       `bun:"recorded_at,nullzero,notnull,default:current_timestamp" json:"recorded_at"`
}

type EntryFilter struct {
	Topic string
	Limit int
}
