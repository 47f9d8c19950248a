package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEnvelopeWireNames(t *testing.T) {
	envelope := Envelope{
		EventID:       "evt-1",
		EventType:     "DiscAddedToBag",
		SourceService: "dewey-api",
		OccurredAt:    time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC),
		PartitionKey:  "user-1",
		Data:          json.RawMessage(`{"user_id":"user-1"}`),
	}

	raw, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"event_id", "event_type", "source_service", "timestamp", "partition_key", "payload"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("expected wire field %q, got %s", key, raw)
		}
	}

	var decoded Envelope
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.EventID != envelope.EventID || string(decoded.Data) != string(envelope.Data) {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}
