package qrcodes

import (
	"context"

	"github.com/qqtag/stickerfind/internal/server/models"
)

// Repository is the persistence boundary for QR code rows. Claim, Unlink and
// MarkDeleted are single conditional updates: the database serializes the
// check-and-set, and a false result means the guard did not match.
type Repository interface {
	InsertBatchCodes(ctx context.Context, batchID int64, uniqueIDs []string) (startID, endID int64, err error)
	GetByID(ctx context.Context, id int64) (*models.QRCode, error)
	GetByUniqueID(ctx context.Context, uniqueID string) (*models.QRCode, error)
	ListAll(ctx context.Context) ([]*models.QRCode, error)
	ListByBatch(ctx context.Context, batchID int64) ([]*models.QRCode, error)
	ListClaimedByUser(ctx context.Context, userID string) ([]*models.QRCode, error)
	Claim(ctx context.Context, id int64, userID string) (bool, error)
	Unlink(ctx context.Context, id int64, userID string) (bool, error)
	MarkDeleted(ctx context.Context, id int64, userID string, admin bool) (bool, error)
}
