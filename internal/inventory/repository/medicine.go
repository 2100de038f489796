package repository

import (
	"context"
	"database/sql"

	"github.com/medisort/medisort-server/internal/inventory/domain"
	"github.com/medisort/medisort-server/pkg/database"
	"github.com/medisort/medisort-server/pkg/errors"
)

// MedicineRepository handles medicine persistence. Every operation is scoped
// to the owning user; records are never shared between owners.
type MedicineRepository struct {
	db *database.DB
}

// NewMedicineRepository creates a new medicine repository
func NewMedicineRepository(db *database.DB) *MedicineRepository {
	return &MedicineRepository{db: db}
}

// FetchAll returns every record belonging to the owner, in insertion order
func (r *MedicineRepository) FetchAll(ctx context.Context, ownerID int64) ([]domain.Medicine, error) {
	query := `
		SELECT id, user_id, name, expiry_date, batch_number, quantity, notes, created_at
		FROM medicines
		WHERE user_id = $1
		ORDER BY id
	`

	var records []domain.Medicine
	if err := r.db.SelectContext(ctx, &records, query, ownerID); err != nil {
		return nil, err
	}

	return records, nil
}

// Insert creates a new record and fills in its storage-assigned ID and
// creation timestamp
func (r *MedicineRepository) Insert(ctx context.Context, m *domain.Medicine) error {
	query := `
		INSERT INTO medicines (user_id, name, expiry_date, batch_number, quantity, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	return r.db.QueryRowxContext(ctx, query,
		m.UserID, m.Name, m.ExpiryDate, m.BatchNumber, m.Quantity, m.Notes,
	).Scan(&m.ID, &m.CreatedAt)
}

// Update replaces a record's editable fields. The ID, owner, and creation
// timestamp never change.
func (r *MedicineRepository) Update(ctx context.Context, m *domain.Medicine) error {
	query := `
		UPDATE medicines
		SET name = $1, expiry_date = $2, batch_number = $3, quantity = $4, notes = $5
		WHERE id = $6 AND user_id = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		m.Name, m.ExpiryDate, m.BatchNumber, m.Quantity, m.Notes, m.ID, m.UserID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("medicine")
	}

	return nil
}

// Delete permanently removes a record. There is no soft-delete or history.
func (r *MedicineRepository) Delete(ctx context.Context, ownerID, id int64) error {
	query := `DELETE FROM medicines WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("medicine")
	}

	return nil
}

// GetByID returns a single record scoped to the owner
func (r *MedicineRepository) GetByID(ctx context.Context, ownerID, id int64) (*domain.Medicine, error) {
	query := `
		SELECT id, user_id, name, expiry_date, batch_number, quantity, notes, created_at
		FROM medicines
		WHERE id = $1 AND user_id = $2
	`

	var m domain.Medicine
	err := r.db.GetContext(ctx, &m, query, id, ownerID)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("medicine")
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}
