package domain_test

import (
	"testing"
	"time"

	"github.com/medisort/medisort-server/internal/inventory/domain"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 2, 10, 15, 30, 0, 0, time.UTC)

func med(expiry string, quantity int) domain.Medicine {
	return domain.Medicine{Name: "Test", ExpiryDate: expiry, Quantity: quantity}
}

func TestMedicine_DaysUntilExpiry(t *testing.T) {
	tests := []struct {
		name   string
		expiry string
		want   int
	}{
		{"same day", "2026-02-10", 0},
		{"tomorrow", "2026-02-11", 1},
		{"yesterday", "2026-02-09", -1},
		{"one week out", "2026-02-17", 7},
		{"far past", "2020-01-01", -2232},
		{"unparseable", "not-a-date", domain.FarFutureDays},
		{"empty", "", domain.FarFutureDays},
		{"wrong format", "10/02/2026", domain.FarFutureDays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := med(tt.expiry, 10)
			assert.Equal(t, tt.want, m.DaysUntilExpiry(now))
		})
	}
}

func TestMedicine_DaysUntilExpiry_IgnoresTimeOfDay(t *testing.T) {
	m := med("2026-02-11", 10)

	lateEvening := time.Date(2026, 2, 10, 23, 59, 0, 0, time.UTC)
	earlyMorning := time.Date(2026, 2, 10, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 1, m.DaysUntilExpiry(lateEvening))
	assert.Equal(t, 1, m.DaysUntilExpiry(earlyMorning))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		daysLeft int
		quantity int
		want     domain.Status
	}{
		{"expired and low stock is critical", -1, 3, domain.StatusCritical},
		{"expired with stock", -1, 10, domain.StatusExpired},
		{"long expired with stock", -500, 100, domain.StatusExpired},
		{"expires today", 0, 10, domain.StatusExpiring},
		{"expires within window", 7, 10, domain.StatusExpiring},
		{"expiring beats low stock", 3, 2, domain.StatusExpiring},
		{"low stock", 100, 4, domain.StatusLowStock},
		{"zero stock far future", 100, 0, domain.StatusLowStock},
		{"good", 100, 10, domain.StatusGood},
		{"boundary just past window", 8, 10, domain.StatusGood},
		{"boundary stock at threshold", 100, 5, domain.StatusGood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.StatusFor(tt.daysLeft, tt.quantity))
		})
	}
}

func TestNewDisplayRow(t *testing.T) {
	t.Run("keeps raw negative days but labels them EXPIRED", func(t *testing.T) {
		row := domain.NewDisplayRow(med("2026-02-09", 10), now)

		assert.Equal(t, -1, row.DaysUntilExpiry)
		assert.Equal(t, "EXPIRED", row.DaysLabel)
		assert.Equal(t, domain.StatusExpired, row.Status)
	})

	t.Run("non-negative days keep numeric label", func(t *testing.T) {
		row := domain.NewDisplayRow(med("2026-02-13", 10), now)

		assert.Equal(t, 3, row.DaysUntilExpiry)
		assert.Equal(t, "3", row.DaysLabel)
		assert.Equal(t, domain.StatusExpiring, row.Status)
	})

	t.Run("unparseable expiry classifies as good via sentinel", func(t *testing.T) {
		row := domain.NewDisplayRow(med("unknown", 10), now)

		assert.Equal(t, domain.FarFutureDays, row.DaysUntilExpiry)
		assert.Equal(t, "999", row.DaysLabel)
		assert.Equal(t, domain.StatusGood, row.Status)
	})
}
