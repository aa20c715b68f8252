package recon

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Orphan is a customer record created upstream whose order submission then
// failed. The upstream API keeps the record; this ledger only makes the gap
// visible so an operator can clean it up.
type Orphan struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customerId"`
	SessionID  string    `json:"sessionId"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"` // OPEN | SUPERSEDED | RESOLVED
	CreatedAt  time.Time `json:"createdAt"`
}

const (
	StatusOpen       = "OPEN"
	StatusSuperseded = "SUPERSEDED"
	StatusResolved   = "RESOLVED"
)

type Ledger struct{ DB *pgxpool.Pool }

// Record inserts an orphan once; redelivered events hit the conflict clause.
func (l *Ledger) Record(ctx context.Context, customerID int64, sessionID, reason string) error {
	_, err := l.DB.Exec(ctx, `
		INSERT INTO orphaned_customers(customer_id, session_id, reason, status)
		VALUES ($1, $2, $3, 'OPEN')
		ON CONFLICT (customer_id) DO NOTHING
	`, customerID, sessionID, reason)
	return err
}

// Supersede closes open orphans for a session after a later checkout on the
// same session completed: the shopper retried and got their order, so the
// earlier customer record is a duplicate, not a dangling failure.
func (l *Ledger) Supersede(ctx context.Context, sessionID string) (int64, error) {
	ct, err := l.DB.Exec(ctx, `
		UPDATE orphaned_customers
		SET status = 'SUPERSEDED'
		WHERE session_id = $1 AND status = 'OPEN'
	`, sessionID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

// Resolve closes an open orphan after an operator cleaned it up upstream.
// The row count tells the caller whether there was anything to close.
func (l *Ledger) Resolve(ctx context.Context, customerID int64) (int64, error) {
	ct, err := l.DB.Exec(ctx, `
		UPDATE orphaned_customers SET status = 'RESOLVED'
		WHERE customer_id = $1 AND status = 'OPEN'
	`, customerID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

// Unresolved lists open orphans for the admin surface.
func (l *Ledger) Unresolved(ctx context.Context) ([]Orphan, error) {
	rows, err := l.DB.Query(ctx, `
		SELECT id, customer_id, session_id, reason, status, created_at
		FROM orphaned_customers
		WHERE status = 'OPEN'
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Orphan
	for rows.Next() {
		var o Orphan
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.SessionID, &o.Reason, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
