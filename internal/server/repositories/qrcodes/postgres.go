// Package qrcodes provides the PostgreSQL-backed repository for QR code
// rows and their lifecycle transitions.
package qrcodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/qqtag/stickerfind/internal/common"
	"github.com/qqtag/stickerfind/internal/dbx"
	"github.com/qqtag/stickerfind/internal/server/models"
)

// PostgresRepository implements QR code storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const qrColumns = `id, unique_id, status, user_id, batch_id, created_at`

// mintLockKey serializes multi-row code minting. nextval on the shared
// qr_codes sequence is evaluated per row, so without the lock two concurrent
// inserts could interleave ids and record overlapping batch ranges.
const mintLockKey = int64(0x716d696e74)

func scanQR(row interface{ Scan(...any) error }) (*models.QRCode, error) {
	qr := &models.QRCode{}
	err := row.Scan(&qr.ID, &qr.UniqueID, &qr.Status, &qr.UserID, &qr.BatchID, &qr.CreatedAt)
	if err != nil {
		return nil, err
	}
	return qr, nil
}

// InsertBatchCodes inserts one Unclaimed row per unique id, all owned by
// batchID, and returns the first and last sequence-assigned ids. A
// transaction-scoped advisory lock serializes concurrent minting, so the
// ids of one batch are contiguous and ascending. Callers run this inside a
// transaction together with the batch row.
func (r *PostgresRepository) InsertBatchCodes(ctx context.Context, batchID int64, uniqueIDs []string) (int64, int64, error) {
	if len(uniqueIDs) == 0 {
		return 0, 0, fmt.Errorf("no unique ids to insert")
	}

	if _, err := r.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, mintLockKey); err != nil {
		return 0, 0, fmt.Errorf("db error: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO qr_codes (unique_id, batch_id) VALUES `)
	args := make([]any, 0, len(uniqueIDs)*2)
	for i, uid := range uniqueIDs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d, $%d)", i*2+1, i*2+2)
		args = append(args, uid, batchID)
	}
	sb.WriteString(` RETURNING id`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var first, last int64
	n := 0
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, 0, err
		}
		if n == 0 {
			first = id
		}
		last = id
		n++
	}
	if err := rows.Err(); err != nil {
		return 0, 0, err
	}
	if n != len(uniqueIDs) {
		return 0, 0, fmt.Errorf("unexpected inserted rows: %d", n)
	}
	if last-first+1 != int64(n) {
		return 0, 0, fmt.Errorf("non-contiguous ids [%d, %d] for %d rows", first, last, n)
	}
	return first, last, nil
}

// GetByID returns the QR code with the given sequential id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.QRCode, error) {
	query := `SELECT ` + qrColumns + ` FROM qr_codes WHERE id = $1`

	qr, err := scanQR(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return qr, nil
}

// GetByUniqueID returns the QR code carrying the given scan token.
func (r *PostgresRepository) GetByUniqueID(ctx context.Context, uniqueID string) (*models.QRCode, error) {
	query := `SELECT ` + qrColumns + ` FROM qr_codes WHERE unique_id = $1`

	qr, err := scanQR(r.db.QueryRowContext(ctx, query, uniqueID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return qr, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.QRCode, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.QRCode
	for rows.Next() {
		qr, err := scanQR(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, qr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListAll returns every QR code ordered by id.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.QRCode, error) {
	return r.list(ctx, `SELECT `+qrColumns+` FROM qr_codes ORDER BY id`)
}

// ListByBatch returns the codes minted in the given batch, ordered by id.
func (r *PostgresRepository) ListByBatch(ctx context.Context, batchID int64) ([]*models.QRCode, error) {
	return r.list(ctx, `SELECT `+qrColumns+` FROM qr_codes WHERE batch_id = $1 ORDER BY id`, batchID)
}

// ListClaimedByUser returns the codes currently claimed by userID. The query
// always reads live lifecycle state, so codes deleted by an admin never
// appear.
func (r *PostgresRepository) ListClaimedByUser(ctx context.Context, userID string) ([]*models.QRCode, error) {
	return r.list(ctx, `SELECT `+qrColumns+` FROM qr_codes WHERE user_id = $1 AND status = 'Claimed' ORDER BY id`, userID)
}

// Claim atomically moves an Unclaimed code to Claimed for userID. Returns
// false without error when the guard did not match (already claimed,
// deleted, or missing); two concurrent claims can never both see true.
func (r *PostgresRepository) Claim(ctx context.Context, id int64, userID string) (bool, error) {
	query := `
		UPDATE qr_codes SET status = 'Claimed', user_id = $2
		WHERE id = $1 AND status = 'Unclaimed'
	`
	return r.execGuarded(ctx, query, id, userID)
}

// Unlink moves a code claimed by userID back to Unclaimed. A mismatched
// owner or state leaves the row untouched and returns false.
func (r *PostgresRepository) Unlink(ctx context.Context, id int64, userID string) (bool, error) {
	query := `
		UPDATE qr_codes SET status = 'Unclaimed', user_id = NULL
		WHERE id = $1 AND status = 'Claimed' AND user_id = $2
	`
	return r.execGuarded(ctx, query, id, userID)
}

// MarkDeleted terminally retires a code. The authorization rides inside the
// guard: owners must still match on user_id at update time, admins pass
// unconditionally. Deleted rows stay in place so their unique_id is never
// reassigned.
func (r *PostgresRepository) MarkDeleted(ctx context.Context, id int64, userID string, admin bool) (bool, error) {
	query := `
		UPDATE qr_codes SET status = 'Deleted', user_id = NULL
		WHERE id = $1 AND status <> 'Deleted' AND (user_id = $2 OR $3)
	`
	return r.execGuarded(ctx, query, id, userID, admin)
}

func (r *PostgresRepository) execGuarded(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected rows affected: %d", n)
	}
}

var _ Repository = (*PostgresRepository)(nil)
