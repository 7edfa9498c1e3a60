// Package services contains server-side business logic. This file implements
// QRService, the lifecycle store for sticker codes: claim, unlink, delete,
// and lookups.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/qqtag/stickerfind/internal/common"
	"github.com/qqtag/stickerfind/internal/server/models"
	"github.com/qqtag/stickerfind/internal/server/repositories/repomanager"
)

// QRService enforces the QR status machine:
//
//	Unclaimed → Claimed (claim) → Unclaimed (unlink); any live state → Deleted.
//
// Deleted is terminal. The check-and-set itself happens in the repository as
// a single conditional update, so two concurrent claims can never both
// succeed; this layer only classifies why a transition was refused.
type QRService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewQRService constructs a QRService using the given repositories.
func NewQRService(db *sql.DB, m repomanager.RepositoryManager) *QRService {
	return &QRService{db: db, repomanager: m}
}

// GetByID returns the code with the given sequential id.
func (s *QRService) GetByID(ctx context.Context, id int64) (*models.QRCode, error) {
	return s.repomanager.QRCodes(s.db).GetByID(ctx, id)
}

// GetByUniqueID returns the code carrying the given scan token. This is the
// lookup behind the public scan URL.
func (s *QRService) GetByUniqueID(ctx context.Context, uniqueID string) (*models.QRCode, error) {
	return s.repomanager.QRCodes(s.db).GetByUniqueID(ctx, uniqueID)
}

// ListAll returns every code; admin table view.
func (s *QRService) ListAll(ctx context.Context) ([]*models.QRCode, error) {
	return s.repomanager.QRCodes(s.db).ListAll(ctx)
}

// Claim links an Unclaimed code to userID. A code that is already claimed or
// deleted yields common.ErrorAlreadyClaimed, an unknown id
// common.ErrorNotFound, so callers can tell "already taken" from "invalid code".
func (s *QRService) Claim(ctx context.Context, qrID int64, userID string) error {
	repo := s.repomanager.QRCodes(s.db)

	ok, err := repo.Claim(ctx, qrID, userID)
	if err != nil {
		return fmt.Errorf("error claiming qr code: %w", err)
	}
	if ok {
		return nil
	}

	// The guard did not match; read the row to report why.
	if _, err := repo.GetByID(ctx, qrID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return common.ErrorAlreadyClaimed
}

// Unlink releases a code claimed by userID back to Unclaimed. Unlinking a
// code owned by someone else yields common.ErrorUnauthorized and leaves the
// row untouched.
func (s *QRService) Unlink(ctx context.Context, qrID int64, userID string) error {
	repo := s.repomanager.QRCodes(s.db)

	ok, err := repo.Unlink(ctx, qrID, userID)
	if err != nil {
		return fmt.Errorf("error unlinking qr code: %w", err)
	}
	if ok {
		return nil
	}

	qr, err := repo.GetByID(ctx, qrID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	if qr.Status == models.StatusClaimed {
		// Claimed, but not by the caller.
		return common.ErrorUnauthorized
	}
	return fmt.Errorf("%w: qr code is not claimed", common.ErrorValidation)
}

// Delete terminally retires a code. Allowed for the current owner and for
// admins; anyone else gets common.ErrorUnauthorized. Ownership is checked
// inside the same conditional update as the transition, so a stale caller
// can never delete a code that changed hands since they last saw it.
// Deleting an already-deleted code fails and the record stays Deleted.
func (s *QRService) Delete(ctx context.Context, qrID int64, callerID string) error {
	repo := s.repomanager.QRCodes(s.db)

	caller, err := s.repomanager.Users(s.db).GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return common.ErrorInternal
	}

	ok, err := repo.MarkDeleted(ctx, qrID, callerID, caller.IsAdmin)
	if err != nil {
		return fmt.Errorf("error deleting qr code: %w", err)
	}
	if ok {
		return nil
	}

	qr, err := repo.GetByID(ctx, qrID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	if qr.Status == models.StatusDeleted {
		return fmt.Errorf("%w: qr code already deleted", common.ErrorValidation)
	}
	return common.ErrorUnauthorized
}
