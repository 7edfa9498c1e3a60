package batches

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/qqtag/stickerfind/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestInsert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), time.Now())
	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+qr_batches\s+\(batch_name,\s*quantity\)\s+VALUES\s+\(\$1,\s*\$2\)\s+RETURNING\s+id,\s*created_at\s*$`).
		WithArgs("Campus_A", 500).
		WillReturnRows(rows)

	b, err := repo.Insert(context.Background(), "Campus_A", 500)
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if b.ID != 3 || b.BatchName != "Campus_A" || b.Quantity != 500 {
		t.Fatalf("unexpected batch: %+v", b)
	}
}

func TestSetRange_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE\s+qr_batches\s+SET\s+start_id\s*=\s*\$2,\s*end_id\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs(int64(3), int64(1001), int64(1500)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetRange(context.Background(), 3, 1001, 1500); err != nil {
		t.Fatalf("SetRange error: %v", err)
	}
}

func TestSetRange_MissingBatch(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+qr_batches\s+SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SetRange(context.Background(), 99, 1, 2); err == nil {
		t.Fatalf("expected error for missing batch")
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.+\s+FROM\s+qr_batches\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Now()
	rows := sqlmock.NewRows([]string{"id", "batch_name", "start_id", "end_id", "quantity", "created_at"}).
		AddRow(int64(2), "Batch_Two", int64(11), int64(20), 10, created).
		AddRow(int64(1), "Batch_One", int64(1), int64(10), 10, created)

	mock.ExpectQuery(`SELECT\s+.+\s+FROM\s+qr_batches\s+ORDER\s+BY\s+id\s+DESC`).
		WillReturnRows(rows)

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 || list[0].ID != 2 {
		t.Fatalf("unexpected list: %+v", list)
	}
}
