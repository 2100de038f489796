package events

import (
	"context"

	"github.com/medisort/medisort-server/internal/inventory/domain"
	"github.com/medisort/medisort-server/pkg/logger"
	"github.com/medisort/medisort-server/pkg/messaging"
)

// AlertPublisher emits urgency alerts for classified rows. With a nil
// publisher every call is a no-op, so the server runs without a broker.
type AlertPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewAlertPublisher creates a new alert publisher. publisher may be nil.
func NewAlertPublisher(publisher *messaging.Publisher, log *logger.Logger) *AlertPublisher {
	return &AlertPublisher{
		publisher: publisher,
		logger:    log.WithComponent("alert-publisher"),
	}
}

// PublishAlerts emits one event per row whose status warrants attention.
// Publish failures are logged and skipped; alerting never blocks a refresh.
func (p *AlertPublisher) PublishAlerts(ctx context.Context, rows []domain.DisplayRow) {
	if p == nil || p.publisher == nil {
		return
	}

	for _, row := range rows {
		eventType := eventTypeFor(row.Status)
		if eventType == "" {
			continue
		}

		event := messaging.ItemAlertEvent{
			ItemID:   row.ID,
			OwnerID:  row.UserID,
			Name:     row.Name,
			Quantity: row.Quantity,
			DaysLeft: row.DaysUntilExpiry,
			Status:   string(row.Status),
		}

		if err := p.publisher.Publish(ctx, eventType, event); err != nil {
			p.logger.Warn().Err(err).Int64("item_id", row.ID).Msg("failed to publish alert")
		}
	}
}

func eventTypeFor(status domain.Status) string {
	switch status {
	case domain.StatusCritical, domain.StatusExpired:
		return messaging.EventItemExpired
	case domain.StatusExpiring:
		return messaging.EventItemExpiring
	case domain.StatusLowStock:
		return messaging.EventStockLow
	default:
		return ""
	}
}
