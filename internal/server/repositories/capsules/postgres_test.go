package capsules

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dkolesni/timecapsule/internal/common"
	"github.com/dkolesni/timecapsule/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func sampleCapsule() *models.Capsule {
	return &models.Capsule{
		ID:               "c-1",
		UserID:           "u-1",
		TitleEncrypted:   "dGl0bGU=",
		TitleIV:          "aXYx",
		ContentEncrypted: "Ym9keQ==",
		ContentIV:        "aXYy",
		UnlockDate:       time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:        time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		IsUnlocked:       false,
		CapsuleType:      "text",
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	c := sampleCapsule()
	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+capsules`).
		WithArgs(c.ID, c.UserID, c.TitleEncrypted, c.TitleIV, c.ContentEncrypted, c.ContentIV,
			c.UnlockDate, c.CreatedAt, c.IsUnlocked, c.CapsuleType).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSelectByUser_OrderAndScan(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	c := sampleCapsule()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title_encrypted", "title_iv", "content_encrypted", "content_iv",
		"unlock_date", "created_at", "is_unlocked", "capsule_type",
	}).
		AddRow("c-2", c.UserID, c.TitleEncrypted, c.TitleIV, c.ContentEncrypted, c.ContentIV,
			c.UnlockDate, c.CreatedAt.Add(time.Hour), true, "mixed").
		AddRow(c.ID, c.UserID, c.TitleEncrypted, c.TitleIV, c.ContentEncrypted, c.ContentIV,
			c.UnlockDate, c.CreatedAt, c.IsUnlocked, c.CapsuleType)

	mock.ExpectQuery(`(?s)SELECT.+FROM\s+capsules\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC`).
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.SelectByUser(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("SelectByUser error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c-2" || got[1].ID != "c-1" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if !got[0].IsUnlocked || got[1].IsUnlocked {
		t.Fatalf("unlock flags scanned incorrectly")
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT.+FROM\s+capsules\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestMarkUnlocked_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE\s+capsules\s+SET\s+is_unlocked\s*=\s*true\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`).
		WithArgs("c-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkUnlocked(context.Background(), "c-1", "u-1"); err != nil {
		t.Fatalf("MarkUnlocked error: %v", err)
	}
}

func TestMarkUnlocked_ForeignOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE\s+capsules`).
		WithArgs("c-1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkUnlocked(context.Background(), "c-1", "intruder")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
