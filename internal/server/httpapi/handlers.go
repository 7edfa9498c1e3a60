package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/qqtag/stickerfind/internal/common"
	"github.com/qqtag/stickerfind/internal/server/models"
	"github.com/qqtag/stickerfind/internal/server/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type qrActionRequest struct {
	QrID int64 `json:"qrId"`
}

type generateBatchRequest struct {
	BatchName string `json:"batchName"`
	Quantity  int    `json:"quantity"`
}

type printBatchRequest struct {
	Sizes []models.StickerSize `json:"sizes"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the service sentinel errors onto HTTP statuses. Unknown
// errors are logged and reported as a generic 500.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrorAlreadyClaimed), errors.Is(err, common.ErrorEmailExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrorUnauthorized):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	default:
		s.logger.Error(r.Context(), err.Error(), "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrorValidation)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", common.ErrorValidation, name)
	}
	return id, nil
}

// --- auth ---

func (s *HTTPServer) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.Register(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "email", user.Email)
	writeJSON(w, http.StatusCreated, user)
}

func (s *HTTPServer) LoginHandler(w http.ResponseWriter, r *http.Request) {
	s.login(w, r, false)
}

// AdminLoginHandler is LoginHandler restricted to admin accounts. A valid
// login on a non-admin account is refused.
func (s *HTTPServer) AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	s.login(w, r, true)
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request, adminOnly bool) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, pair, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
			return
		}
		s.writeError(w, r, err)
		return
	}
	if adminOnly && !user.IsAdmin {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin access required"})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *HTTPServer) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// --- qr codes ---

func (s *HTTPServer) GetQRByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	qr, err := s.qrs.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, qr)
}

func (s *HTTPServer) GetQRByUniqueIDHandler(w http.ResponseWriter, r *http.Request) {
	qr, err := s.qrs.GetByUniqueID(r.Context(), mux.Vars(r)["uniqueId"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, qr)
}

func (s *HTTPServer) ListQRCodesHandler(w http.ResponseWriter, r *http.Request) {
	codes, err := s.qrs.ListAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, codes)
}

func (s *HTTPServer) ClaimHandler(w http.ResponseWriter, r *http.Request) {
	s.qrAction(w, r, s.qrs.Claim)
}

func (s *HTTPServer) UnlinkHandler(w http.ResponseWriter, r *http.Request) {
	s.qrAction(w, r, s.qrs.Unlink)
}

// qrAction runs a lifecycle transition on behalf of the authenticated user
// and responds with the refreshed code.
func (s *HTTPServer) qrAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, qrID int64, userID string) error) {
	userID, _ := userIDFromContext(r.Context())

	var req qrActionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := action(r.Context(), req.QrID, userID); err != nil {
		s.writeError(w, r, err)
		return
	}

	qr, err := s.qrs.GetByID(r.Context(), req.QrID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, qr)
}

func (s *HTTPServer) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	var req qrActionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.qrs.Delete(r.Context(), req.QrID, userID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- users ---

func (s *HTTPServer) GetOwnerHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetOwner(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) GetLinkedCodesHandler(w http.ResponseWriter, r *http.Request) {
	targetID := mux.Vars(r)["userId"]
	if err := s.requireSelfOrAdmin(r, targetID); err != nil {
		s.writeError(w, r, err)
		return
	}

	codes, err := s.users.GetLinkedCodes(r.Context(), targetID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, codes)
}

func (s *HTTPServer) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	targetID := mux.Vars(r)["userId"]
	if err := s.requireSelfOrAdmin(r, targetID); err != nil {
		s.writeError(w, r, err)
		return
	}

	var upd models.ProfileUpdate
	if err := decodeBody(r, &upd); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.users.UpdateProfile(r.Context(), targetID, upd); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.GetOwner(r.Context(), targetID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) requireSelfOrAdmin(r *http.Request, targetID string) error {
	callerID, ok := userIDFromContext(r.Context())
	if !ok {
		return common.ErrorUnauthorized
	}
	if callerID == targetID {
		return nil
	}
	caller, err := s.users.GetOwner(r.Context(), callerID)
	if err != nil || !caller.IsAdmin {
		return common.ErrorUnauthorized
	}
	return nil
}

// --- batches ---

func (s *HTTPServer) GenerateBatchHandler(w http.ResponseWriter, r *http.Request) {
	var req generateBatchRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	batch, err := s.batches.Generate(r.Context(), req.BatchName, req.Quantity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Batch generated", "batch", batch.BatchName, "quantity", batch.Quantity)
	writeJSON(w, http.StatusCreated, batch)
}

func (s *HTTPServer) ListBatchesHandler(w http.ResponseWriter, r *http.Request) {
	batches, err := s.batches.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batches)
}

func (s *HTTPServer) GetBatchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	batch, err := s.batches.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (s *HTTPServer) ListBatchCodesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	codes, err := s.batches.Codes(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, codes)
}

// --- printing ---

func (s *HTTPServer) PrintQRHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	size := models.StickerSize(r.URL.Query().Get("size"))
	if size == "" {
		size = models.SizeMedium
	}

	p, err := s.prints.ForQR(r.Context(), id, size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) PrintBatchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req printBatchRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.prints.ForBatch(r.Context(), id, req.Sizes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
