// Package store defines the durable occupancy record and its backends.
// The engine requires exactly two operations from a backend: a
// point-in-time snapshot of sold seat ids, and an atomic conditional
// insert that either sells every requested seat or none of them.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnavailable is returned when a backend cannot be reached or a
// commit did not complete within its deadline.  No partial state is left
// behind; the whole checkout may be retried later.
var ErrUnavailable = errors.New("occupancy store unavailable")

// ConflictError reports a commit that lost the race on one or more seat
// ids.  Contested holds exactly the requested ids that were already
// sold; none of the requested ids were added.
type ConflictError struct {
	Contested []string
}

func (e *ConflictError) Error() string {
	ids := append([]string(nil), e.Contested...)
	sort.Strings(ids)
	return fmt.Sprintf("seats already sold: %s", strings.Join(ids, ","))
}

// Occupancy is the contract every backend must satisfy.
//
// Snapshot returns the current set of sold seat ids and is safe to call
// from any number of concurrent readers.
//
// Commit atomically adds all of seatIDs to the occupancy set, but only
// if none of them is already present.  When one or more are present it
// adds nothing and returns a *ConflictError naming the sold subset.
// For any seat id, at most one concurrent Commit referencing that id
// succeeds; every other concurrent caller referencing it receives it
// back inside Contested.  A read-then-write implementation violates
// this contract and must not be used.
type Occupancy interface {
	Snapshot(ctx context.Context) (map[string]struct{}, error)
	Commit(ctx context.Context, seatIDs []string) error
}
