package store

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryCommitAddsAll(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Commit(ctx, []string{"A1", "A2", "B1"}); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	snap, err := m.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	for _, id := range []string{"A1", "A2", "B1"} {
		if _, ok := snap[id]; !ok {
			t.Errorf("seat %s missing from snapshot", id)
		}
	}
}

func TestMemoryCommitAllOrNothing(t *testing.T) {
	m := NewMemory("C10")
	ctx := context.Background()

	err := m.Commit(ctx, []string{"C9", "C10", "C11"})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(conflict.Contested) != 1 || conflict.Contested[0] != "C10" {
		t.Fatalf("expected contested [C10], got %v", conflict.Contested)
	}
	// Nothing may have been added.
	snap, _ := m.Snapshot(ctx)
	if len(snap) != 1 {
		t.Errorf("conflicted commit must not add seats, snapshot has %d", len(snap))
	}
	if _, ok := snap["C9"]; ok {
		t.Error("C9 must not have been sold")
	}
}

func TestMemorySeedAlreadySold(t *testing.T) {
	m := NewMemory("A5", "A6", "B2")
	snap, err := m.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if len(snap) != 3 {
		t.Fatalf("expected 3 seeded seats, got %d", len(snap))
	}
}

// Many goroutines race to commit overlapping seat sets; for every seat
// exactly one commit referencing it may win.
func TestMemoryCommitSingleWinnerUnderRace(t *testing.T) {
	m := NewMemory()
	const racers = 32
	ctx := context.Background()

	var wg sync.WaitGroup
	wins := make(chan int, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := m.Commit(ctx, []string{"C10"}); err == nil {
				wins <- n
				return
			} else {
				var conflict *ConflictError
				if !errors.As(err, &conflict) {
					t.Errorf("racer %d: unexpected error %v", n, err)
					return
				}
				if len(conflict.Contested) != 1 || conflict.Contested[0] != "C10" {
					t.Errorf("racer %d: contested = %v", n, conflict.Contested)
				}
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	winners := 0
	for range wins {
		winners++
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winning commit, got %d", winners)
	}
}

func TestMemoryContextCancelled(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := m.Commit(ctx, []string{"A1"}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable on cancelled commit, got %v", err)
	}
	if _, err := m.Snapshot(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable on cancelled snapshot, got %v", err)
	}
}
