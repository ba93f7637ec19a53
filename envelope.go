package realtime

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Envelope is the unit of wire communication: a typed, timestamped payload with
// a best-effort unique id. Delivery is fire-and-forget, so id collisions are
// tolerable; the id exists for correlation, not deduplication.
type Envelope struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp string    `json:"timestamp"`
}

func newEnvelope(id string, eventType EventType, data any) Envelope {
	if id == "" {
		id = uuid.NewString()
	}
	return Envelope{
		ID:        id,
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

func (e Envelope) encode() ([]byte, error) {
	bts, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot serialize envelope %q", e.ID)
	}
	return bts, nil
}

func (e Envelope) String() string {
	return fmt.Sprintf("Envelope{id=%s,type=%s,ts=%s}", e.ID, e.Type, e.Timestamp)
}

// parseEnvelope decodes a raw inbound frame. Frames without a type are
// rejected; the transport logs and discards them without touching the
// connection.
func parseEnvelope(raw []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return Envelope{}, errors.Wrap(err, "cannot parse inbound frame")
	}
	if e.Type == "" {
		return Envelope{}, errors.New("inbound frame has no event type")
	}
	return e, nil
}
