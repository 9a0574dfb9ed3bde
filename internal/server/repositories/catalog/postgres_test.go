package catalog

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/airtimehq/airtime/internal/common"
	"github.com/airtimehq/airtime/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestSet_Upserts(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+packages\s*\(id,\s*price,\s*duration_secs,\s*name,\s*speed_label,\s*is_popular\).*ON\s+CONFLICT\s*\(id\)`

	mock.ExpectExec(q).
		WithArgs(int64(1), int64(100), int64(3600), "Basic", "Up to 10 Mbps", false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	pkg := models.Package{Price: 100, DurationSecs: 3600, Name: "Basic", SpeedLabel: "Up to 10 Mbps"}
	if err := repo.Set(context.Background(), 1, pkg); err != nil {
		t.Fatalf("Set error: %v", err)
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+price,\s*duration_secs,\s*name,\s*speed_label,\s*is_popular\s+FROM\s+packages\s+WHERE\s+id\s*=\s*\$1`

	rows := sqlmock.NewRows([]string{"price", "duration_secs", "name", "speed_label", "is_popular"}).
		AddRow(int64(500), int64(7200), "Premium", "Full speed", true)
	mock.ExpectQuery(q).WithArgs(int64(2)).WillReturnRows(rows)

	pkg, err := repo.Get(context.Background(), 2)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	want := models.Package{Price: 500, DurationSecs: 7200, Name: "Premium", SpeedLabel: "Full speed", IsPopular: true}
	if *pkg != want {
		t.Fatalf("unexpected package: %+v", pkg)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 99)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_AscendingWithinBound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+id,\s*price,\s*duration_secs,\s*name,\s*speed_label,\s*is_popular\s+FROM\s+packages\s+WHERE\s+id\s+BETWEEN\s+1\s+AND\s+\$1\s+ORDER\s+BY\s+id`

	rows := sqlmock.NewRows([]string{"id", "price", "duration_secs", "name", "speed_label", "is_popular"}).
		AddRow(int64(1), int64(100), int64(3600), "Basic", "Up to 10 Mbps", false).
		AddRow(int64(3), int64(900), int64(86400), "Day pass", "Full speed", true)
	mock.ExpectQuery(q).WithArgs(int64(10)).WillReturnRows(rows)

	entries, err := repo.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != 1 || entries[1].ID != 3 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestList_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "price", "duration_secs", "name", "speed_label", "is_popular"}))

	entries, err := repo.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty slice, got %+v", entries)
	}
}
