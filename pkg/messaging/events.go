package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventItemExpiring = "inventory.item.expiring"
	EventItemExpired  = "inventory.item.expired"
	EventStockLow     = "inventory.stock.low"
)

// Exchange names
const (
	ExchangeInventoryEvents = "medisort.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return uuid.New().String()
}

// ItemAlertEvent is emitted when the urgency classifier flags a medicine
// during a refresh pass.
type ItemAlertEvent struct {
	ItemID   int64  `json:"item_id"`
	OwnerID  int64  `json:"owner_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	DaysLeft int    `json:"days_left"`
	Status   string `json:"status"`
}
