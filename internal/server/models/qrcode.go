package models

import (
	"fmt"
	"time"
)

// QRStatus is the lifecycle state of a QR code.
type QRStatus string

const (
	StatusUnclaimed QRStatus = "Unclaimed"
	StatusClaimed   QRStatus = "Claimed"
	StatusDeleted   QRStatus = "Deleted"
)

// QRCode is a single sticker code. ID is the sequential display identifier,
// UniqueID the random token embedded in the public scan URL. UserID is set
// if and only if Status is Claimed.
type QRCode struct {
	ID        int64     `json:"id"`
	UniqueID  string    `json:"uniqueId"`
	Status    QRStatus  `json:"status"`
	UserID    *string   `json:"userId,omitempty"`
	BatchID   int64     `json:"batchId"`
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayID renders the human-readable sticker label, e.g. "QR000042".
func (q *QRCode) DisplayID() string {
	return fmt.Sprintf("QR%06d", q.ID)
}
