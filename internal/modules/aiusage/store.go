package aiusage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles plan_usage persistence.
type Store struct {
	db      *pgxpool.Pool
	monthly int
	now     func() time.Time
}

// NewStore returns a Store backed by the given connection pool. monthly <= 0 means
// DefaultMonthlyPlans.
func NewStore(db *pgxpool.Pool, monthly int) *Store {
	if monthly <= 0 {
		monthly = DefaultMonthlyPlans
	}
	return &Store{db: db, monthly: monthly, now: time.Now}
}

// Migrate creates the plan_usage table when missing.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, Schema)
	return err
}

func (s *Store) month() string {
	return s.now().UTC().Format("2006-01")
}

// Consume atomically checks the monthly allowance and deducts one plan.
// It resets the counter to the monthly allowance when last_reset_month is behind the current month.
// Returns ErrQuotaExceeded when 0 rows are updated (allowance exhausted or client absent).
func (s *Store) Consume(ctx context.Context, clientID string) error {
	month := s.month()

	tag, err := s.db.Exec(ctx, `
		UPDATE plan_usage SET
			plans_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE plans_remaining - 1 END,
			last_reset_month = $1
		WHERE client_id = $3 AND (last_reset_month < $1 OR plans_remaining > 0)
	`, month, s.monthly, clientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrQuotaExceeded
	}
	return nil
}

// EnsureClient inserts a new plan_usage row for clientID with the full monthly allowance.
// If the row already exists the insert is silently skipped (ON CONFLICT DO NOTHING).
func (s *Store) EnsureClient(ctx context.Context, clientID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO plan_usage (client_id, plans_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (client_id) DO NOTHING
	`, clientID, s.monthly, s.month())
	return err
}

// Remaining reports the plans left for clientID in the stored month.
func (s *Store) Remaining(ctx context.Context, clientID string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, "SELECT plans_remaining FROM plan_usage WHERE client_id = $1", clientID).Scan(&n)
	return n, err
}
