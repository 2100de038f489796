package database

import "context"

// Schema for a fresh database. Expiry dates are stored as zero-padded ISO
// strings; lexicographic order on that column is chronological order.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      VARCHAR(100) UNIQUE NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS medicines (
	id           BIGSERIAL PRIMARY KEY,
	user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name         VARCHAR(255) NOT NULL,
	expiry_date  VARCHAR(10) NOT NULL,
	batch_number VARCHAR(100),
	quantity     INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
	notes        TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_medicines_user_id ON medicines(user_id);
`

// EnsureSchema creates the tables if they do not exist yet
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
