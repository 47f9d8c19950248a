package events

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical event shape published to the bag update log.
// An envelope is immutable once published; corrections are new events.
// Wire names follow the repository event contract: payload/timestamp plus
// the identifiers consumers need for dedup and partition routing.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	SourceService string          `json:"source_service"`
	OccurredAt    time.Time       `json:"timestamp"`
	PartitionKey  string          `json:"partition_key"`
	Data          json.RawMessage `json:"payload"`
}
