package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/qqtag/stickerfind/internal/common"
	"github.com/qqtag/stickerfind/internal/dbx"
	"github.com/qqtag/stickerfind/internal/server/models"
	batchesrepo "github.com/qqtag/stickerfind/internal/server/repositories/batches"
	qrcodesrepo "github.com/qqtag/stickerfind/internal/server/repositories/qrcodes"
	refreshtokensrepo "github.com/qqtag/stickerfind/internal/server/repositories/refreshtokens"
	usersrepo "github.com/qqtag/stickerfind/internal/server/repositories/users"
)

// In-memory fakes mirroring the conditional-update guard semantics of the
// Postgres repositories, so service tests can exercise full scenarios.

type fakeQRRepo struct {
	codes  map[int64]*models.QRCode
	nextID int64
	err    error
}

func newFakeQRRepo() *fakeQRRepo {
	return &fakeQRRepo{codes: map[int64]*models.QRCode{}, nextID: 1}
}

func (f *fakeQRRepo) add(qr models.QRCode) *models.QRCode {
	c := qr
	f.codes[c.ID] = &c
	if c.ID >= f.nextID {
		f.nextID = c.ID + 1
	}
	return &c
}

func (f *fakeQRRepo) InsertBatchCodes(ctx context.Context, batchID int64, uniqueIDs []string) (int64, int64, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	first := f.nextID
	for _, uid := range uniqueIDs {
		f.codes[f.nextID] = &models.QRCode{
			ID: f.nextID, UniqueID: uid, Status: models.StatusUnclaimed,
			BatchID: batchID, CreatedAt: time.Now(),
		}
		f.nextID++
	}
	return first, f.nextID - 1, nil
}

func (f *fakeQRRepo) GetByID(ctx context.Context, id int64) (*models.QRCode, error) {
	if f.err != nil {
		return nil, f.err
	}
	qr, ok := f.codes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *qr
	return &c, nil
}

func (f *fakeQRRepo) GetByUniqueID(ctx context.Context, uniqueID string) (*models.QRCode, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, qr := range f.codes {
		if qr.UniqueID == uniqueID {
			c := *qr
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeQRRepo) ListAll(ctx context.Context) ([]*models.QRCode, error) {
	var result []*models.QRCode
	for i := int64(1); i < f.nextID; i++ {
		if qr, ok := f.codes[i]; ok {
			c := *qr
			result = append(result, &c)
		}
	}
	return result, f.err
}

func (f *fakeQRRepo) ListByBatch(ctx context.Context, batchID int64) ([]*models.QRCode, error) {
	all, err := f.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var result []*models.QRCode
	for _, qr := range all {
		if qr.BatchID == batchID {
			result = append(result, qr)
		}
	}
	return result, nil
}

func (f *fakeQRRepo) ListClaimedByUser(ctx context.Context, userID string) ([]*models.QRCode, error) {
	all, err := f.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var result []*models.QRCode
	for _, qr := range all {
		if qr.Status == models.StatusClaimed && qr.UserID != nil && *qr.UserID == userID {
			result = append(result, qr)
		}
	}
	return result, nil
}

func (f *fakeQRRepo) Claim(ctx context.Context, id int64, userID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	qr, ok := f.codes[id]
	if !ok || qr.Status != models.StatusUnclaimed {
		return false, nil
	}
	qr.Status = models.StatusClaimed
	qr.UserID = &userID
	return true, nil
}

func (f *fakeQRRepo) Unlink(ctx context.Context, id int64, userID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	qr, ok := f.codes[id]
	if !ok || qr.Status != models.StatusClaimed || qr.UserID == nil || *qr.UserID != userID {
		return false, nil
	}
	qr.Status = models.StatusUnclaimed
	qr.UserID = nil
	return true, nil
}

func (f *fakeQRRepo) MarkDeleted(ctx context.Context, id int64, userID string, admin bool) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	qr, ok := f.codes[id]
	if !ok || qr.Status == models.StatusDeleted {
		return false, nil
	}
	if !admin && (qr.UserID == nil || *qr.UserID != userID) {
		return false, nil
	}
	qr.Status = models.StatusDeleted
	qr.UserID = nil
	return true, nil
}

type fakeUsersRepo struct {
	users map[string]*models.User
	err   error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, common.ErrorEmailExists
		}
	}
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) error {
	if f.err != nil {
		return f.err
	}
	u, ok := f.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	if upd.Email != nil {
		for _, other := range f.users {
			if other.ID != id && other.Email == *upd.Email {
				return common.ErrorEmailExists
			}
		}
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Phone != nil {
		u.Phone = upd.Phone
	}
	if upd.Whatsapp != nil {
		u.Whatsapp = upd.Whatsapp
	}
	return nil
}

type fakeRefreshRepo struct {
	tokens    map[string]*models.RefreshToken
	createErr error
	findErr   error
	delErr    error
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &models.RefreshToken{Token: token, UserID: userID, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.tokens, token)
	return nil
}

type fakeBatchesRepo struct {
	batches map[int64]*models.QRBatch
	nextID  int64
	err     error
}

func newFakeBatchesRepo() *fakeBatchesRepo {
	return &fakeBatchesRepo{batches: map[int64]*models.QRBatch{}, nextID: 1}
}

func (f *fakeBatchesRepo) Insert(ctx context.Context, batchName string, quantity int) (*models.QRBatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	b := &models.QRBatch{ID: f.nextID, BatchName: batchName, Quantity: quantity, CreatedAt: time.Now()}
	f.batches[b.ID] = b
	f.nextID++
	return b, nil
}

func (f *fakeBatchesRepo) SetRange(ctx context.Context, id, startID, endID int64) error {
	if f.err != nil {
		return f.err
	}
	b, ok := f.batches[id]
	if !ok {
		return fmt.Errorf("unexpected rows affected: 0")
	}
	b.StartID, b.EndID = startID, endID
	return nil
}

func (f *fakeBatchesRepo) GetByID(ctx context.Context, id int64) (*models.QRBatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.batches[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return b, nil
}

func (f *fakeBatchesRepo) List(ctx context.Context) ([]*models.QRBatch, error) {
	var result []*models.QRBatch
	for i := f.nextID - 1; i >= 1; i-- {
		if b, ok := f.batches[i]; ok {
			result = append(result, b)
		}
	}
	return result, f.err
}

type fakeRepoManager struct {
	qr      *fakeQRRepo
	users   *fakeUsersRepo
	refresh *fakeRefreshRepo
	batches *fakeBatchesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		qr:      newFakeQRRepo(),
		users:   newFakeUsersRepo(),
		refresh: newFakeRefreshRepo(),
		batches: newFakeBatchesRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error             { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                   { return m.users }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository   { return m.refresh }
func (m *fakeRepoManager) QRCodes(db dbx.DBTX) qrcodesrepo.Repository               { return m.qr }
func (m *fakeRepoManager) Batches(db dbx.DBTX) batchesrepo.Repository               { return m.batches }
