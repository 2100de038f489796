package domain

import (
	"strconv"
	"time"
)

// Status is the urgency classification of a medicine
type Status string

const (
	StatusGood     Status = "GOOD"
	StatusLowStock Status = "LOW_STOCK"
	StatusExpiring Status = "EXPIRING"
	StatusExpired  Status = "EXPIRED"
	StatusCritical Status = "CRITICAL"
)

const (
	// LowStockThreshold is the quantity below which an item counts as low stock
	LowStockThreshold = 5

	// ExpiringWindowDays is the days-to-expiry window that counts as expiring soon
	ExpiringWindowDays = 7

	// FarFutureDays is the sentinel for unparseable expiry dates
	FarFutureDays = 999
)

// expiryDateLayout is zero-padded ISO 8601. Lexicographic order on strings
// in this layout equals chronological order, which the ordering engine
// relies on when comparing raw expiry values.
const expiryDateLayout = "2006-01-02"

// Medicine is one inventory record. Records are immutable between fetches;
// edits go through storage and a fresh snapshot.
type Medicine struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"-"`
	Name        string    `db:"name" json:"name"`
	ExpiryDate  string    `db:"expiry_date" json:"expiry_date"`
	BatchNumber *string   `db:"batch_number" json:"batch_number,omitempty"`
	Quantity    int       `db:"quantity" json:"quantity"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// DaysUntilExpiry returns the whole-day difference between the expiry date
// at midnight and the date of now. Unparseable expiry dates yield
// FarFutureDays rather than an error.
func (m *Medicine) DaysUntilExpiry(now time.Time) int {
	expiry, err := time.Parse(expiryDateLayout, m.ExpiryDate)
	if err != nil {
		return FarFutureDays
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(expiry.Sub(today).Hours() / 24)
}

// StatusFor classifies a (days left, quantity) pair. The cases are checked
// in fixed priority order; exactly one status applies to every pair.
func StatusFor(daysLeft, quantity int) Status {
	switch {
	case daysLeft < 0 && quantity < LowStockThreshold:
		return StatusCritical
	case daysLeft < 0:
		return StatusExpired
	case daysLeft <= ExpiringWindowDays:
		return StatusExpiring
	case quantity < LowStockThreshold:
		return StatusLowStock
	default:
		return StatusGood
	}
}

// DisplayRow is a medicine annotated with its derived urgency values.
// It is recomputed on every render pass and never stored.
type DisplayRow struct {
	Medicine
	DaysUntilExpiry int    `json:"days_until_expiry"`
	DaysLabel       string `json:"days_label"`
	Status          Status `json:"status"`
}

// NewDisplayRow classifies one medicine against the given reference time.
// The raw day count stays available in DaysUntilExpiry; DaysLabel replaces
// negative counts with an EXPIRED marker for presentation.
func NewDisplayRow(m Medicine, now time.Time) DisplayRow {
	days := m.DaysUntilExpiry(now)

	label := strconv.Itoa(days)
	if days < 0 {
		label = "EXPIRED"
	}

	return DisplayRow{
		Medicine:        m,
		DaysUntilExpiry: days,
		DaysLabel:       label,
		Status:          StatusFor(days, m.Quantity),
	}
}
