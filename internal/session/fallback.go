// README: Store wrapper degrading from Redis to process memory on transport failure.
package session

import (
	"context"
	"errors"
	"log"

	"cabbot/internal/types"
)

// FallbackStore serves from primary and falls back to secondary only when the
// primary fails for a reason other than a missing record. Degraded sessions
// survive only as long as the process, which beats dropping the conversation.
type FallbackStore struct {
	primary   Store
	secondary Store
}

func NewFallbackStore(primary, secondary Store) *FallbackStore {
	return &FallbackStore{primary: primary, secondary: secondary}
}

func (f *FallbackStore) Get(ctx context.Context, userID types.ID) (*State, error) {
	s, err := f.primary.Get(ctx, userID)
	if err == nil || errors.Is(err, ErrNotFound) {
		return s, err
	}
	log.Printf("session store degraded, reading %s from memory: %v", userID, err)
	return f.secondary.Get(ctx, userID)
}

func (f *FallbackStore) Save(ctx context.Context, s *State) error {
	if err := f.primary.Save(ctx, s); err != nil {
		log.Printf("session store degraded, writing %s to memory: %v", s.UserID, err)
		return f.secondary.Save(ctx, s)
	}
	return nil
}

func (f *FallbackStore) Delete(ctx context.Context, userID types.ID) error {
	err := f.primary.Delete(ctx, userID)
	if err != nil {
		log.Printf("session store degraded, deleting %s from memory only: %v", userID, err)
	}
	// Always clear the memory copy so a degraded write cannot resurrect state.
	if secErr := f.secondary.Delete(ctx, userID); err == nil {
		err = secErr
	}
	return err
}

func (f *FallbackStore) Extend(ctx context.Context, userID types.ID) error {
	err := f.primary.Extend(ctx, userID)
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	log.Printf("session store degraded, extending %s in memory: %v", userID, err)
	return f.secondary.Extend(ctx, userID)
}

func (f *FallbackStore) ListActive(ctx context.Context) ([]types.ID, error) {
	ids, err := f.primary.ListActive(ctx)
	if err != nil {
		log.Printf("session store degraded, listing from memory: %v", err)
		return f.secondary.ListActive(ctx)
	}
	return ids, nil
}
