package engine

import (
	"context"
	"sort"
	"time"

	"github.com/medisort/medisort-server/internal/inventory/domain"
	"github.com/medisort/medisort-server/pkg/errors"
)

// Store is the durable record store the session delegates to. Implementations
// scope every operation to the owning user.
type Store interface {
	FetchAll(ctx context.Context, ownerID int64) ([]domain.Medicine, error)
	Insert(ctx context.Context, m *domain.Medicine) error
	Update(ctx context.Context, m *domain.Medicine) error
	Delete(ctx context.Context, ownerID, id int64) error
}

// State is the session's lifecycle position
type State string

const (
	StateEmpty    State = "empty"
	StateLoaded   State = "loaded"
	StateFiltered State = "filtered"
)

// Session orchestrates one owner's view of their inventory: it holds the
// snapshot fetched at the last refresh, the active sort and filter, and
// produces display rows on demand. All of its computation is synchronous and
// in-memory; only the Store delegations touch I/O. A Session is not safe for
// concurrent use; callers serialize access.
type Session struct {
	store   Store
	ownerID int64

	state    State
	sortSt   SortState
	snapshot []domain.Medicine // full fetched set, ordered by sortSt
	visible  []domain.Medicine
	query    string
}

// NewSession creates a session in the Empty state with the default sort
func NewSession(store Store, ownerID int64) *Session {
	return &Session{
		store:   store,
		ownerID: ownerID,
		state:   StateEmpty,
		sortSt:  DefaultSort,
	}
}

// State returns the current lifecycle state
func (s *Session) State() State { return s.state }

// Sort returns the active sort state
func (s *Session) Sort() SortState { return s.sortSt }

// Query returns the active filter query, empty when none is applied
func (s *Session) Query() string { return s.query }

// Refresh re-fetches the full record set and re-applies the current sort,
// discarding any active filter. On storage failure the previous snapshot and
// visible set are retained and the error is surfaced.
func (s *Session) Refresh(ctx context.Context) error {
	fetched, err := s.store.FetchAll(ctx, s.ownerID)
	if err != nil {
		return errors.Storage(err)
	}

	s.snapshot = Order(fetched, s.sortSt)
	s.visible = s.snapshot
	s.query = ""
	s.state = StateLoaded
	return nil
}

// SetSort re-runs the ordering engine with the new sort state. The full
// snapshot is reordered so a later filter-clear reverts to it, and an active
// filtered view is reordered in place; the state does not change.
func (s *Session) SetSort(state SortState) {
	s.sortSt = state

	if s.state == StateEmpty {
		return
	}

	s.snapshot = Order(s.snapshot, state)
	if s.state == StateFiltered {
		s.visible = Order(s.visible, state)
	} else {
		s.visible = s.snapshot
	}
}

// ApplyFilter narrows the visible set by running the search engine over the
// full fetched set, not the already-filtered one. The full variant also
// matches notes. An empty query is equivalent to ClearFilter.
func (s *Session) ApplyFilter(query string, full bool) {
	if s.state == StateEmpty {
		return
	}

	if query == "" {
		s.ClearFilter()
		return
	}

	if full {
		s.visible = Search(s.snapshot, query)
	} else {
		s.visible = Filter(s.snapshot, query)
	}
	s.query = query
	s.state = StateFiltered
}

// ClearFilter reverts the visible set to the last-ordered full set
func (s *Session) ClearFilter() {
	if s.state == StateEmpty {
		return
	}

	s.visible = s.snapshot
	s.query = ""
	s.state = StateLoaded
}

// Visible returns the currently visible records
func (s *Session) Visible() []domain.Medicine {
	return s.visible
}

// DisplayRows classifies every visible record against the reference time
func (s *Session) DisplayRows(now time.Time) []domain.DisplayRow {
	rows := make([]domain.DisplayRow, len(s.visible))
	for i, m := range s.visible {
		rows[i] = domain.NewDisplayRow(m, now)
	}
	return rows
}

// SnapshotRows classifies the full snapshot regardless of any active filter
func (s *Session) SnapshotRows(now time.Time) []domain.DisplayRow {
	rows := make([]domain.DisplayRow, len(s.snapshot))
	for i, m := range s.snapshot {
		rows[i] = domain.NewDisplayRow(m, now)
	}
	return rows
}

// Expiring returns the snapshot records expiring within the alert window
// (today included, already-expired excluded), soonest first.
func (s *Session) Expiring(now time.Time) []domain.DisplayRow {
	var rows []domain.DisplayRow
	for _, m := range s.snapshot {
		days := m.DaysUntilExpiry(now)
		if days >= 0 && days <= domain.ExpiringWindowDays {
			rows = append(rows, domain.NewDisplayRow(m, now))
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DaysUntilExpiry < rows[j].DaysUntilExpiry
	})

	return rows
}

// LowStock returns the snapshot records below the stock threshold
func (s *Session) LowStock(now time.Time) []domain.DisplayRow {
	var rows []domain.DisplayRow
	for _, m := range s.snapshot {
		if m.Quantity < domain.LowStockThreshold {
			rows = append(rows, domain.NewDisplayRow(m, now))
		}
	}
	return rows
}

// Add delegates to storage and then refreshes. The record's owner is forced
// to the session's owner.
func (s *Session) Add(ctx context.Context, m *domain.Medicine) error {
	m.UserID = s.ownerID
	if err := s.store.Insert(ctx, m); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Edit replaces a record's fields in storage and refreshes
func (s *Session) Edit(ctx context.Context, id int64, m *domain.Medicine) error {
	m.ID = id
	m.UserID = s.ownerID
	if err := s.store.Update(ctx, m); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Delete removes a record from storage and refreshes. Deletion is permanent.
func (s *Session) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, s.ownerID, id); err != nil {
		return err
	}
	return s.Refresh(ctx)
}
