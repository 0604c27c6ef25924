package sqlite

import (
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS obligations (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    account         TEXT    NOT NULL,
    category        TEXT    NOT NULL CHECK (category IN ('FINE', 'ASSESSMENT')),
    concept         TEXT,
    address         TEXT,
    amount          TEXT    NOT NULL CHECK (CAST(amount AS REAL) > 0),
    issued_at       TEXT    NOT NULL,
    due_at          TEXT    NOT NULL,
    status          TEXT    NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'SETTLED')),
    settled_at      TEXT,
    settled_on_time INTEGER,
    CHECK ((status = 'SETTLED') = (settled_at IS NOT NULL)),
    CHECK ((settled_at IS NULL) = (settled_on_time IS NULL))
);

CREATE INDEX IF NOT EXISTS obligations_account_idx
    ON obligations (category, account, issued_at DESC);

CREATE TRIGGER IF NOT EXISTS obligations_settled_immutable
BEFORE UPDATE ON obligations
FOR EACH ROW WHEN OLD.status = 'SETTLED' OR NEW.amount <> OLD.amount
BEGIN
    SELECT RAISE(ABORT, 'obligation is immutable');
END;
`

// runMigrations aplica el esquema (idempotente).
func runMigrations(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("aplicar esquema: %w", err)
	}
	return nil
}
