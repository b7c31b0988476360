// README: Store tests; memory and fallback in-process, Redis behind an env flag.
package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"cabbot/internal/modules/trip"
	"cabbot/internal/types"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	s := NewState("u1")
	s.AppendTurn(RoleUser, "book a cab")
	s.Trip = &trip.Trip{ID: "t1", Status: trip.StatusCreated}
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Trip == nil || got.Trip.ID != "t1" || len(got.Turns) != 1 {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestMemoryStoreMissing(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	if _, err := store.Get(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	clock := time.Now()
	store.now = func() time.Time { return clock }
	ctx := context.Background()

	if err := store.Save(ctx, NewState("u1")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	clock = clock.Add(30 * time.Second)
	if _, err := store.Get(ctx, "u1"); err != nil {
		t.Fatalf("session expired too early: %v", err)
	}

	// The read above slid the expiry forward; step past it.
	clock = clock.Add(2 * time.Minute)
	if _, err := store.Get(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestMemoryStoreGetSlidesExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	clock := time.Now()
	store.now = func() time.Time { return clock }
	ctx := context.Background()

	store.Save(ctx, NewState("u1"))
	for i := 0; i < 4; i++ {
		clock = clock.Add(45 * time.Second)
		if _, err := store.Get(ctx, "u1"); err != nil {
			t.Fatalf("read %d should keep session alive: %v", i, err)
		}
	}
}

func TestMemoryStoreExtend(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	clock := time.Now()
	store.now = func() time.Time { return clock }
	ctx := context.Background()

	store.Save(ctx, NewState("u1"))
	clock = clock.Add(50 * time.Second)
	if err := store.Extend(ctx, "u1"); err != nil {
		t.Fatalf("Extend: %v", err)
	}
	clock = clock.Add(50 * time.Second)
	if _, err := store.Get(ctx, "u1"); err != nil {
		t.Fatalf("extended session expired: %v", err)
	}
	if err := store.Extend(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	store.Save(ctx, NewState("u1"))
	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreListActive(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	store.Save(ctx, NewState("u1"))
	store.Save(ctx, NewState("u2"))

	ids, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 active sessions, got %v", ids)
	}
}

type failingStore struct{}

func (failingStore) Get(ctx context.Context, userID types.ID) (*State, error) {
	return nil, errors.New("connection refused")
}
func (failingStore) Save(ctx context.Context, s *State) error { return errors.New("connection refused") }
func (failingStore) Delete(ctx context.Context, userID types.ID) error {
	return errors.New("connection refused")
}
func (failingStore) Extend(ctx context.Context, userID types.ID) error {
	return errors.New("connection refused")
}
func (failingStore) ListActive(ctx context.Context) ([]types.ID, error) {
	return nil, errors.New("connection refused")
}

func TestFallbackDegradesToMemory(t *testing.T) {
	mem := NewMemoryStore(time.Minute)
	store := NewFallbackStore(failingStore{}, mem)
	ctx := context.Background()

	s := NewState("u1")
	s.PassengerCount = 4
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save should degrade, not fail: %v", err)
	}
	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get should degrade, not fail: %v", err)
	}
	if got.PassengerCount != 4 {
		t.Errorf("degraded read lost data: %+v", got)
	}
}

func TestFallbackMissingIsNotDegradation(t *testing.T) {
	mem := NewMemoryStore(time.Minute)
	primary := NewMemoryStore(time.Minute)
	primary.Save(context.Background(), NewState("u1"))
	mem.Save(context.Background(), &State{UserID: "u1", PassengerCount: 9})

	store := NewFallbackStore(primary, mem)
	got, err := store.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.PassengerCount == 9 {
		t.Error("healthy primary must win over the memory copy")
	}
	if _, err := store.Get(context.Background(), "u2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ErrNotFound from a healthy primary must pass through, got %v", err)
	}
}

// Redis round trip runs only against a real instance.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("CABBOT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CABBOT_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	s := NewState("redis-test-user")
	s.AppendTurn(RoleUser, "hello")
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	t.Cleanup(func() { store.Delete(ctx, s.UserID) })

	got, err := store.Get(ctx, s.UserID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Turns) != 1 {
		t.Errorf("round trip lost data: %+v", got)
	}

	ids, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	found := false
	for _, id := range ids {
		if id == s.UserID {
			found = true
		}
	}
	if !found {
		t.Errorf("saved session missing from ListActive: %v", ids)
	}
}
