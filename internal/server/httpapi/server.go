// Package httpapi exposes the StickerFind services over HTTP/JSON.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/qqtag/stickerfind/internal/logging"
	"github.com/qqtag/stickerfind/internal/server/models"
	"github.com/qqtag/stickerfind/internal/server/services"
)

type userSvc interface {
	Register(ctx context.Context, req services.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) error
	GetOwner(ctx context.Context, userID string) (*models.User, error)
	GetLinkedCodes(ctx context.Context, userID string) ([]*models.QRCode, error)
	ParseAccessToken(token string) (string, error)
}

type qrSvc interface {
	GetByID(ctx context.Context, id int64) (*models.QRCode, error)
	GetByUniqueID(ctx context.Context, uniqueID string) (*models.QRCode, error)
	ListAll(ctx context.Context) ([]*models.QRCode, error)
	Claim(ctx context.Context, qrID int64, userID string) error
	Unlink(ctx context.Context, qrID int64, userID string) error
	Delete(ctx context.Context, qrID int64, callerID string) error
}

type batchSvc interface {
	Generate(ctx context.Context, batchName string, quantity int) (*models.QRBatch, error)
	List(ctx context.Context) ([]*models.QRBatch, error)
	GetByID(ctx context.Context, id int64) (*models.QRBatch, error)
	Codes(ctx context.Context, batchID int64) ([]*models.QRCode, error)
}

type printSvc interface {
	ForQR(ctx context.Context, qrID int64, size models.StickerSize) (*models.PrintableQR, error)
	ForBatch(ctx context.Context, batchID int64, sizes []models.StickerSize) ([]*models.PrintableQR, error)
}

// HTTPServer serves the public API: auth, the QR lifecycle operations, and
// the admin batch endpoints.
type HTTPServer struct {
	address string
	logger  logging.Logger
	users   userSvc
	qrs     qrSvc
	batches batchSvc
	prints  printSvc
}

func NewHTTPServer(address string, l logging.Logger, us userSvc, qs qrSvc, bs batchSvc, ps printSvc) *HTTPServer {
	return &HTTPServer{
		address: address,
		logger:  l.With("module", "http_server"),
		users:   us,
		qrs:     qs,
		batches: bs,
		prints:  ps,
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
