package stations

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lanternhq/lanternhack/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*is_active,\s*signal_value\s+FROM\s+stations\s+WHERE\s+id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"id", "name", "is_active", "signal_value"}).
		AddRow(5, "relay-5", true, 107)
	mock.ExpectQuery(q).WithArgs(int64(5)).WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != 5 || got.SignalValue != 107 || !got.IsActive {
		t.Fatalf("unexpected station: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*is_active,\s*signal_value\s+FROM\s+stations\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}

func TestGetAll_ReturnsStationsInOrder(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*is_active,\s*signal_value\s+FROM\s+stations\s+ORDER\s+BY\s+id\s*$`

	rows := sqlmock.NewRows([]string{"id", "name", "is_active", "signal_value"}).
		AddRow(1, "relay-1", true, 100).
		AddRow(2, "relay-2", false, 93)
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].SignalValue != 93 {
		t.Fatalf("unexpected stations: %+v", got)
	}
}

func TestUpdateSignal_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+stations\s+SET\s+signal_value\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).WithArgs(int64(5), int64(110)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateSignal(context.Background(), 5, 110); err != nil {
		t.Fatalf("UpdateSignal error: %v", err)
	}
}

func TestUpdateSignal_UnknownStation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+stations\s+SET\s+signal_value\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).WithArgs(int64(99), int64(110)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateSignal(context.Background(), 99, 110)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}

func TestResetSignals_UpdatesActiveStations(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+stations\s+SET\s+signal_value\s*=\s*\$1\s+WHERE\s+is_active\s*$`

	mock.ExpectExec(q).WithArgs(int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 4))

	if err := repo.ResetSignals(context.Background(), 100); err != nil {
		t.Fatalf("ResetSignals error: %v", err)
	}
}
