package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// MySQL persists the occupancy set in an occupied_seats table with
// seat_id as primary key.  The commit runs inside a transaction: sold
// rows among the requested ids are locked and reported as contested,
// and the primary key arbitrates the remaining race between two
// transactions inserting the same seat at once — the loser's duplicate
// key error is converted into a conflict.
//
// Expected schema:
//
//	CREATE TABLE occupied_seats (
//	    seat_id VARCHAR(16) NOT NULL PRIMARY KEY,
//	    sold_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
type MySQL struct {
	db *sql.DB
}

// NewMySQL returns a MySQL-backed occupancy store bound to db.
func NewMySQL(db *sql.DB) *MySQL { return &MySQL{db: db} }

const mysqlDupEntry = 1062

// Snapshot reads all sold seat ids.
func (s *MySQL) Snapshot(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT seat_id FROM occupied_seats`)
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Join(ErrUnavailable, err)
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	return out, nil
}

// Commit sells all of seatIDs or none of them.  Contested ids are
// reported exactly; the transaction is rolled back on any conflict so
// no partial insert survives.
func (s *MySQL) Commit(ctx context.Context, seatIDs []string) error {
	if len(seatIDs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	contested, err := s.soldAmongTx(ctx, tx, seatIDs, true)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	if len(contested) > 0 {
		return &ConflictError{Contested: contested}
	}

	query := `INSERT INTO occupied_seats (seat_id) VALUES ` +
		strings.TrimSuffix(strings.Repeat("(?),", len(seatIDs)), ",")
	args := make([]interface{}, len(seatIDs))
	for i, id := range seatIDs {
		args[i] = id
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDupEntry {
			// Lost the insert race; report whoever won.
			contested, qErr := s.soldAmong(ctx, seatIDs)
			if qErr != nil || len(contested) == 0 {
				return errors.Join(ErrUnavailable, err)
			}
			return &ConflictError{Contested: contested}
		}
		return errors.Join(ErrUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	committed = true
	return nil
}

// soldAmongTx returns the subset of ids already present, optionally
// locking the matching rows for the duration of the transaction.
func (s *MySQL) soldAmongTx(ctx context.Context, tx *sql.Tx, ids []string, lock bool) ([]string, error) {
	query := `SELECT seat_id FROM occupied_seats WHERE seat_id IN (` +
		strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",") + `)`
	if lock {
		query += ` FOR UPDATE`
	}
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sold []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		sold = append(sold, id)
	}
	return sold, rows.Err()
}

// soldAmong is the non-transactional variant used after a duplicate key
// rollback to name the contested ids.
func (s *MySQL) soldAmong(ctx context.Context, ids []string) ([]string, error) {
	query := `SELECT seat_id FROM occupied_seats WHERE seat_id IN (` +
		strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",") + `)`
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sold []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		sold = append(sold, id)
	}
	return sold, rows.Err()
}
