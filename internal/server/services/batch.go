package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/qqtag/stickerfind/internal/common"
	"github.com/qqtag/stickerfind/internal/dbx"
	"github.com/qqtag/stickerfind/internal/server/models"
	"github.com/qqtag/stickerfind/internal/server/repositories/repomanager"
)

const (
	minBatchQuantity = 1
	maxBatchQuantity = 10000
	minBatchNameLen  = 3
	maxBatchNameLen  = 50

	// uniqueIDBytes random bytes per scan token, hex-encoded to twice that
	// many characters. The qr_codes unique index is the permanent
	// collision backstop.
	uniqueIDBytes = 16
)

// BatchService mints batches of sticker codes: it validates the request,
// allocates (id, uniqueId) pairs and persists the batch row together with
// all code rows in a single transaction.
type BatchService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewBatchService constructs a BatchService using the given repositories.
func NewBatchService(db *sql.DB, m repomanager.RepositoryManager) *BatchService {
	return &BatchService{db: db, repomanager: m}
}

// Generate validates batchName and quantity, then creates the batch and its
// quantity Unclaimed codes all-or-nothing. On success the returned batch
// carries the recorded inclusive [StartID, EndID] range.
func (s *BatchService) Generate(ctx context.Context, batchName string, quantity int) (*models.QRBatch, error) {
	batchName = strings.TrimSpace(batchName)
	if l := len(batchName); l < minBatchNameLen || l > maxBatchNameLen {
		return nil, fmt.Errorf("%w: batch name must be %d-%d characters", common.ErrorValidation, minBatchNameLen, maxBatchNameLen)
	}
	if quantity < minBatchQuantity || quantity > maxBatchQuantity {
		return nil, fmt.Errorf("%w: quantity must be %d-%d", common.ErrorValidation, minBatchQuantity, maxBatchQuantity)
	}

	uniqueIDs, err := s.mintUniqueIDs(quantity)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var batch *models.QRBatch
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		b, err := s.repomanager.Batches(tx).Insert(ctx, batchName, quantity)
		if err != nil {
			return fmt.Errorf("error creating batch: %w", err)
		}

		startID, endID, err := s.repomanager.QRCodes(tx).InsertBatchCodes(ctx, b.ID, uniqueIDs)
		if err != nil {
			return fmt.Errorf("error minting qr codes: %w", err)
		}

		if err := s.repomanager.Batches(tx).SetRange(ctx, b.ID, startID, endID); err != nil {
			return fmt.Errorf("error recording batch range: %w", err)
		}

		b.StartID, b.EndID = startID, endID
		batch = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// List returns all batches, newest first.
func (s *BatchService) List(ctx context.Context) ([]*models.QRBatch, error) {
	return s.repomanager.Batches(s.db).List(ctx)
}

// GetByID returns a single batch.
func (s *BatchService) GetByID(ctx context.Context, id int64) (*models.QRBatch, error) {
	return s.repomanager.Batches(s.db).GetByID(ctx, id)
}

// Codes returns the codes minted in the given batch, ordered by id.
// An unknown batch yields common.ErrorNotFound.
func (s *BatchService) Codes(ctx context.Context, batchID int64) ([]*models.QRCode, error) {
	if _, err := s.repomanager.Batches(s.db).GetByID(ctx, batchID); err != nil {
		return nil, err
	}
	return s.repomanager.QRCodes(s.db).ListByBatch(ctx, batchID)
}

func (s *BatchService) mintUniqueIDs(n int) ([]string, error) {
	ids := make([]string, n)
	for i := range ids {
		token, err := common.MakeRandHexString(uniqueIDBytes)
		if err != nil {
			return nil, err
		}
		ids[i] = token
	}
	return ids, nil
}
