package service

import (
	"context"
	"sync"
	"time"

	"github.com/medisort/medisort-server/internal/inventory/domain"
	"github.com/medisort/medisort-server/internal/inventory/engine"
	"github.com/medisort/medisort-server/internal/inventory/events"
	"github.com/medisort/medisort-server/pkg/logger"
)

// Store is the persistence the service needs: the session's operations plus
// single-record lookup for returning stored rows.
type Store interface {
	engine.Store
	GetByID(ctx context.Context, ownerID, id int64) (*domain.Medicine, error)
}

// InventoryService fronts the per-owner inventory sessions. Sessions are
// created lazily and kept for the life of the process; the service mutex
// serializes all access to them.
type InventoryService struct {
	store  Store
	alerts *events.AlertPublisher
	logger *logger.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[int64]*engine.Session
}

// NewInventoryService creates a new inventory service
func NewInventoryService(store Store, alerts *events.AlertPublisher, log *logger.Logger) *InventoryService {
	return &InventoryService{
		store:    store,
		alerts:   alerts,
		logger:   log.WithComponent("inventory-service"),
		now:      time.Now,
		sessions: make(map[int64]*engine.Session),
	}
}

// WithClock overrides the reference clock
func (s *InventoryService) WithClock(clock func() time.Time) *InventoryService {
	s.now = clock
	return s
}

// session returns the owner's session, creating it on first use. Callers hold
// the mutex.
func (s *InventoryService) session(ownerID int64) *engine.Session {
	sess, ok := s.sessions[ownerID]
	if !ok {
		sess = engine.NewSession(s.store, ownerID)
		s.sessions[ownerID] = sess
	}
	return sess
}

// MedicineRequest carries the editable fields of a record. The expiry date is
// required but deliberately not format-checked: an unparseable value is kept
// and classified as far-future rather than rejected.
type MedicineRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	ExpiryDate  string  `json:"expiry_date" validate:"required"`
	BatchNumber *string `json:"batch_number" validate:"omitempty,max=100"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Notes       *string `json:"notes" validate:"omitempty,max=1000"`
}

func (r MedicineRequest) toMedicine() domain.Medicine {
	return domain.Medicine{
		Name:        r.Name,
		ExpiryDate:  r.ExpiryDate,
		BatchNumber: r.BatchNumber,
		Quantity:    r.Quantity,
		Notes:       r.Notes,
	}
}

// ListQuery selects the sort and filter applied to a listing
type ListQuery struct {
	Sort      string
	Direction string
	Query     string
	Full      bool
}

// List refreshes the owner's session, applies the requested sort and filter,
// and returns the classified rows. Alerts for the full snapshot are published
// as a side effect of the refresh.
func (s *InventoryService) List(ctx context.Context, ownerID int64, q ListQuery) ([]domain.DisplayRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(ownerID)
	if err := sess.Refresh(ctx); err != nil {
		return nil, err
	}

	sess.SetSort(engine.SortState{
		Key:       engine.ParseSortKey(q.Sort),
		Direction: engine.ParseDirection(q.Direction),
	})
	sess.ApplyFilter(q.Query, q.Full)

	now := s.now()
	s.alerts.PublishAlerts(ctx, sess.SnapshotRows(now))

	return sess.DisplayRows(now), nil
}

// Add creates a record for the owner
func (s *InventoryService) Add(ctx context.Context, ownerID int64, req MedicineRequest) (*domain.Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := req.toMedicine()
	if err := s.session(ownerID).Add(ctx, &m); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("owner_id", ownerID).Int64("item_id", m.ID).Str("name", m.Name).Msg("medicine added")
	return &m, nil
}

// Edit replaces a record's editable fields and returns the stored row, so
// the response carries the storage-held creation timestamp.
func (s *InventoryService) Edit(ctx context.Context, ownerID, id int64, req MedicineRequest) (*domain.Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := req.toMedicine()
	if err := s.session(ownerID).Edit(ctx, id, &m); err != nil {
		return nil, err
	}

	stored, err := s.store.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("owner_id", ownerID).Int64("item_id", id).Msg("medicine updated")
	return stored, nil
}

// Delete permanently removes a record
func (s *InventoryService) Delete(ctx context.Context, ownerID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session(ownerID).Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("owner_id", ownerID).Int64("item_id", id).Msg("medicine deleted")
	return nil
}

// Expiring returns the owner's records inside the expiry alert window,
// soonest first
func (s *InventoryService) Expiring(ctx context.Context, ownerID int64) ([]domain.DisplayRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(ownerID)
	if err := sess.Refresh(ctx); err != nil {
		return nil, err
	}

	return sess.Expiring(s.now()), nil
}

// LowStock returns the owner's records below the stock threshold
func (s *InventoryService) LowStock(ctx context.Context, ownerID int64) ([]domain.DisplayRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(ownerID)
	if err := sess.Refresh(ctx); err != nil {
		return nil, err
	}

	return sess.LowStock(s.now()), nil
}

// DashboardStats summarizes an owner's inventory for the dashboard
type DashboardStats struct {
	TotalItems    int `json:"total_items"`
	TotalStock    int `json:"total_stock"`
	ExpiredCount  int `json:"expired_count"`
	ExpiringCount int `json:"expiring_count"`
	LowStockCount int `json:"low_stock_count"`
}

// Stats computes dashboard statistics over the owner's full inventory
func (s *InventoryService) Stats(ctx context.Context, ownerID int64) (*DashboardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(ownerID)
	if err := sess.Refresh(ctx); err != nil {
		return nil, err
	}

	// Counts come from the raw days and quantity so a record can show up in
	// more than one bucket, unlike the single display status.
	stats := &DashboardStats{}
	for _, row := range sess.SnapshotRows(s.now()) {
		stats.TotalItems++
		stats.TotalStock += row.Quantity

		if row.DaysUntilExpiry < 0 {
			stats.ExpiredCount++
		} else if row.DaysUntilExpiry <= domain.ExpiringWindowDays {
			stats.ExpiringCount++
		}
		if row.Quantity < domain.LowStockThreshold {
			stats.LowStockCount++
		}
	}

	return stats, nil
}
