// README: Postgres audit log of trip status transitions.
package trip

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"cabbot/internal/types"
)

// Store appends trip status transitions to trip_state_events. It exists for
// offline analysis only; nothing in the request path reads it back.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns nil when no pool is configured; a nil Store is valid and
// records nothing.
func NewStore(pool *pgxpool.Pool) *Store {
	if pool == nil {
		return nil
	}
	return &Store{pool: pool}
}

func (s *Store) AppendEvent(ctx context.Context, userID, tripID types.ID, from, to Status) error {
	if s == nil || s.pool == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO trip_state_events (user_id, trip_id, from_status, to_status) VALUES ($1, $2, $3, $4)`,
		string(userID), string(tripID), string(from), string(to))
	return err
}
