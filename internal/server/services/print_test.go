package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qqtag/stickerfind/internal/common"
	"github.com/qqtag/stickerfind/internal/server/models"
)

func TestForQR(t *testing.T) {
	rm := newFakeRepoManager()
	rm.qr.add(models.QRCode{ID: 7, UniqueID: "abc123", Status: models.StatusUnclaimed, BatchID: 1})
	s := NewPrintService(nil, rm, "https://qqtag.example/")

	p, err := s.ForQR(context.Background(), 7, models.SizeMedium)
	require.NoError(t, err)
	require.Equal(t, int64(7), p.ID)
	require.Equal(t, "QR000007", p.DisplayID)
	require.Equal(t, "abc123", p.UniqueID)
	require.Equal(t, "https://qqtag.example/qr/abc123", p.URL, "trailing slash must not double")
	require.Equal(t, models.SizeMedium, p.Size)
	require.Equal(t, "Scan to Return", p.Text)
}

func TestForQR_InvalidSize(t *testing.T) {
	rm := newFakeRepoManager()
	s := NewPrintService(nil, rm, "https://qqtag.example")

	_, err := s.ForQR(context.Background(), 7, models.StickerSize("Gigantic"))
	require.True(t, errors.Is(err, common.ErrorValidation))
}

func TestForQR_NotFound(t *testing.T) {
	rm := newFakeRepoManager()
	s := NewPrintService(nil, rm, "https://qqtag.example")

	_, err := s.ForQR(context.Background(), 7, models.SizeSmall)
	require.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestForBatch_CyclesSizes(t *testing.T) {
	rm := newFakeRepoManager()
	bs := NewBatchService(newTxDB(t), rm)
	batch, err := bs.Generate(context.Background(), "Campus_A", 5)
	require.NoError(t, err)

	s := NewPrintService(nil, rm, "https://qqtag.example")
	sizes := []models.StickerSize{models.SizeSmall, models.SizeLarge}

	got, err := s.ForBatch(context.Background(), batch.ID, sizes)
	require.NoError(t, err)
	require.Len(t, got, 5)

	want := []models.StickerSize{
		models.SizeSmall, models.SizeLarge, models.SizeSmall, models.SizeLarge, models.SizeSmall,
	}
	for i, p := range got {
		require.Equal(t, want[i], p.Size)
		require.Equal(t, "Scan to Return", p.Text)
	}
}

func TestForBatch_Validation(t *testing.T) {
	rm := newFakeRepoManager()
	s := NewPrintService(nil, rm, "https://qqtag.example")
	ctx := context.Background()

	_, err := s.ForBatch(ctx, 1, nil)
	require.True(t, errors.Is(err, common.ErrorValidation))

	_, err = s.ForBatch(ctx, 1, []models.StickerSize{"Gigantic"})
	require.True(t, errors.Is(err, common.ErrorValidation))
}

func TestForBatch_UnknownBatch(t *testing.T) {
	rm := newFakeRepoManager()
	s := NewPrintService(nil, rm, "https://qqtag.example")

	_, err := s.ForBatch(context.Background(), 42, []models.StickerSize{models.SizeSmall})
	require.True(t, errors.Is(err, common.ErrorNotFound))
}
