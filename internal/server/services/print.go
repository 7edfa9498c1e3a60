package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/qqtag/stickerfind/internal/common"
	"github.com/qqtag/stickerfind/internal/server/models"
	"github.com/qqtag/stickerfind/internal/server/repositories/repomanager"
)

// stickerText is the caption printed under every scannable code.
const stickerText = "Scan to Return"

// PrintService produces the read-only projection handed to the sticker
// renderer. No state is mutated here.
type PrintService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	scanBaseURL string
}

// NewPrintService constructs a PrintService. scanBaseURL is the public base
// the sticker URLs are built from.
func NewPrintService(db *sql.DB, m repomanager.RepositoryManager, scanBaseURL string) *PrintService {
	return &PrintService{db: db, repomanager: m, scanBaseURL: strings.TrimRight(scanBaseURL, "/")}
}

// ForQR returns the printable tuple for one code at the requested size.
func (s *PrintService) ForQR(ctx context.Context, qrID int64, size models.StickerSize) (*models.PrintableQR, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: unknown sticker size %q", common.ErrorValidation, size)
	}
	qr, err := s.repomanager.QRCodes(s.db).GetByID(ctx, qrID)
	if err != nil {
		return nil, err
	}
	return s.printable(qr, size), nil
}

// ForBatch returns printable tuples for every code in a batch. The requested
// sizes cycle across the batch in id order, so a print run can mix sizes.
func (s *PrintService) ForBatch(ctx context.Context, batchID int64, sizes []models.StickerSize) ([]*models.PrintableQR, error) {
	if len(sizes) == 0 {
		return nil, fmt.Errorf("%w: at least one sticker size required", common.ErrorValidation)
	}
	for _, size := range sizes {
		if !size.Valid() {
			return nil, fmt.Errorf("%w: unknown sticker size %q", common.ErrorValidation, size)
		}
	}

	if _, err := s.repomanager.Batches(s.db).GetByID(ctx, batchID); err != nil {
		return nil, err
	}
	codes, err := s.repomanager.QRCodes(s.db).ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	result := make([]*models.PrintableQR, 0, len(codes))
	for i, qr := range codes {
		result = append(result, s.printable(qr, sizes[i%len(sizes)]))
	}
	return result, nil
}

func (s *PrintService) printable(qr *models.QRCode, size models.StickerSize) *models.PrintableQR {
	return &models.PrintableQR{
		ID:        qr.ID,
		DisplayID: qr.DisplayID(),
		UniqueID:  qr.UniqueID,
		URL:       s.scanBaseURL + "/qr/" + qr.UniqueID,
		Size:      size,
		Text:      stickerText,
	}
}
