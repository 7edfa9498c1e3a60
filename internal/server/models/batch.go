package models

import "time"

// QRBatch groups a contiguous run of QR codes minted in one admin action.
// StartID and EndID are the inclusive bounds of the minted ids; batches are
// append-only and their range is never reused.
type QRBatch struct {
	ID        int64     `json:"id"`
	BatchName string    `json:"batchName"`
	StartID   int64     `json:"startId"`
	EndID     int64     `json:"endId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}
