package vault

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/hearthlabs/hearthcore/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestPostgresPut_Upsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+vault_records\b.*ON\s+CONFLICT\s+\(user_id,\s*collection,\s*record_id\)\s+DO\s+UPDATE\b`

	mock.ExpectExec(q).
		WithArgs("u1", "emails", "draft1", []byte{0xde, 0xad}, []byte{0x01, 0x02}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Put(context.Background(), &Record{
		UserID:     "u1",
		Collection: "emails",
		RecordID:   "draft1",
		Ciphertext: []byte{0xde, 0xad},
		Nonce:      []byte{0x01, 0x02},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+ciphertext,\s*nonce,\s*created_at,\s*updated_at\s+FROM\s+vault_records\b`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"ciphertext", "nonce", "created_at", "updated_at"}).
		AddRow([]byte{0xde, 0xad}, []byte{0x01, 0x02}, now, now)

	mock.ExpectQuery(q).
		WithArgs("u1", "emails", "draft1").
		WillReturnRows(rows)

	rec, err := repo.Get(context.Background(), "u1", "emails", "draft1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.UserID != "u1" || len(rec.Ciphertext) != 2 || len(rec.Nonce) != 2 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestPostgresGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+ciphertext,\s*nonce,\s*created_at,\s*updated_at\s+FROM\s+vault_records\b`

	mock.ExpectQuery(q).
		WithArgs("u1", "emails", "missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "u1", "emails", "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestPostgresDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*DELETE\s+FROM\s+vault_records\s+WHERE\b`

	mock.ExpectExec(q).
		WithArgs("u1", "emails", "draft1").
		WillReturnResult(sqlmock.NewResult(0, 0)) // no row; still success

	if err := repo.Delete(context.Background(), "u1", "emails", "draft1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPostgresList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+record_id\s+FROM\s+vault_records\b.*ORDER\s+BY\s+record_id\s*$`

	rows := sqlmock.NewRows([]string{"record_id"}).AddRow("a").AddRow("b")
	mock.ExpectQuery(q).
		WithArgs("u1", "emails").
		WillReturnRows(rows)

	ids, err := repo.List(context.Background(), "u1", "emails")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}
