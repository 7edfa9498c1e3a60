package batches

import (
	"context"

	"github.com/qqtag/stickerfind/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, batchName string, quantity int) (*models.QRBatch, error)
	SetRange(ctx context.Context, id, startID, endID int64) error
	GetByID(ctx context.Context, id int64) (*models.QRBatch, error)
	List(ctx context.Context) ([]*models.QRBatch, error)
}
