// Package batches provides the PostgreSQL-backed repository for QR batch
// rows.
package batches

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/qqtag/stickerfind/internal/common"
	"github.com/qqtag/stickerfind/internal/dbx"
	"github.com/qqtag/stickerfind/internal/server/models"
)

// PostgresRepository implements batch storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert creates the batch row and returns it with its generated id and
// timestamp. The id range is recorded afterwards with SetRange, inside the
// same transaction as the code rows.
func (r *PostgresRepository) Insert(ctx context.Context, batchName string, quantity int) (*models.QRBatch, error) {
	query := `
		INSERT INTO qr_batches (batch_name, quantity)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	b := &models.QRBatch{BatchName: batchName, Quantity: quantity}
	err := r.db.QueryRowContext(ctx, query, batchName, quantity).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

// SetRange records the inclusive [startID, endID] bounds of the minted codes.
func (r *PostgresRepository) SetRange(ctx context.Context, id, startID, endID int64) error {
	query := `UPDATE qr_batches SET start_id = $2, end_id = $3 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, startID, endID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

// GetByID returns the batch with the given id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.QRBatch, error) {
	query := `SELECT id, batch_name, start_id, end_id, quantity, created_at FROM qr_batches WHERE id = $1`

	b := &models.QRBatch{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&b.ID, &b.BatchName, &b.StartID, &b.EndID, &b.Quantity, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

// List returns all batches, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.QRBatch, error) {
	query := `SELECT id, batch_name, start_id, end_id, quantity, created_at FROM qr_batches ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.QRBatch
	for rows.Next() {
		b := &models.QRBatch{}
		if err := rows.Scan(&b.ID, &b.BatchName, &b.StartID, &b.EndID, &b.Quantity, &b.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

var _ Repository = (*PostgresRepository)(nil)
