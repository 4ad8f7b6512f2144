package rounds

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanternhq/lanternhack/internal/common"
	"github.com/lanternhq/lanternhack/internal/dbx"
	"github.com/lanternhq/lanternhack/internal/logging"
	"github.com/lanternhq/lanternhack/internal/server/config"
	"github.com/lanternhq/lanternhack/internal/server/models"
	"github.com/lanternhq/lanternhack/internal/server/repositories/accounts"
	"github.com/lanternhq/lanternhack/internal/server/repositories/stations"
	"github.com/lanternhq/lanternhack/internal/server/sessions"
)

type fakeStationsRepo struct {
	stations []*models.Station

	getAllErr error
	resetErr  error

	resetBaseline int64
	resetCalled   bool
}

func (f *fakeStationsRepo) GetByID(ctx context.Context, id int64) (*models.Station, error) {
	return nil, common.ErrNotFound
}

func (f *fakeStationsRepo) GetAll(ctx context.Context) ([]*models.Station, error) {
	if f.getAllErr != nil {
		return nil, f.getAllErr
	}
	return f.stations, nil
}

func (f *fakeStationsRepo) UpdateSignal(ctx context.Context, id int64, value int64) error {
	return nil
}

func (f *fakeStationsRepo) ResetSignals(ctx context.Context, baseline int64) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	f.resetCalled = true
	f.resetBaseline = baseline
	return nil
}

type fakeRepoManager struct {
	stations *fakeStationsRepo
}

func (m *fakeRepoManager) Stations(db dbx.DBTX) stations.Repository { return m.stations }
func (m *fakeRepoManager) Accounts(db dbx.DBTX) accounts.Repository { return nil }
func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

type fakeArchiver struct {
	key      string
	err      error
	received []*models.Station
}

func (f *fakeArchiver) StoreSnapshot(ctx context.Context, stations []*models.Station) (string, error) {
	f.received = stations
	if f.err != nil {
		return "", f.err
	}
	return f.key, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

func newTestService(t *testing.T, repo *fakeStationsRepo, archiver Archiver) (*Service, *sessions.MemoryStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()

	store := sessions.NewMemoryStore()
	svc := NewService(db, &fakeRepoManager{stations: repo}, store, archiver, testLogger(), cfg)
	return svc, store, mock
}

func seedSession(t *testing.T, store *sessions.MemoryStore, owner string) {
	t.Helper()
	err := store.Replace(context.Background(), &models.HackSession{
		Owner: owner, StationID: 5, TriesLeft: 3,
		Candidates: []models.Candidate{{UserName: "jsmith", Password: "hunter2", IsCorrect: true}},
	})
	require.NoError(t, err)
}

func TestReset_SnapshotsResetsAndPurges(t *testing.T) {
	repo := &fakeStationsRepo{stations: []*models.Station{
		{ID: 1, IsActive: true, SignalValue: 140},
		{ID: 2, IsActive: true, SignalValue: 63},
	}}
	archiver := &fakeArchiver{key: "rounds/2026/8/29/abc.json"}
	svc, store, mock := newTestService(t, repo, archiver)
	ctx := context.Background()

	seedSession(t, store, "u1")
	seedSession(t, store, "u2")

	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.Reset(ctx)
	require.NoError(t, err)

	assert.True(t, repo.resetCalled)
	assert.Equal(t, int64(100), repo.resetBaseline)

	assert.Equal(t, 2, result.Stations)
	assert.Equal(t, "rounds/2026/8/29/abc.json", result.ArchiveKey)

	// The archived snapshot holds the pre-reset values.
	require.Len(t, archiver.received, 2)
	assert.Equal(t, int64(140), archiver.received[0].SignalValue)
	assert.Equal(t, int64(63), archiver.received[1].SignalValue)

	for _, owner := range []string{"u1", "u2"} {
		_, err := store.Get(ctx, owner)
		assert.ErrorIs(t, err, common.ErrNotFound, "session %s must be purged", owner)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReset_ArchiveFailureDoesNotBlock(t *testing.T) {
	repo := &fakeStationsRepo{stations: []*models.Station{{ID: 1, IsActive: true, SignalValue: 120}}}
	svc, store, mock := newTestService(t, repo, &fakeArchiver{err: errors.New("bucket gone")})
	ctx := context.Background()

	seedSession(t, store, "u1")

	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.Reset(ctx)
	require.NoError(t, err)

	assert.True(t, repo.resetCalled)
	assert.Empty(t, result.ArchiveKey)

	_, err = store.Get(ctx, "u1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestReset_StorageFailureRollsBack(t *testing.T) {
	repo := &fakeStationsRepo{
		stations: []*models.Station{{ID: 1, IsActive: true, SignalValue: 120}},
		resetErr: errors.New("db down"),
	}
	archiver := &fakeArchiver{key: "unused"}
	svc, store, mock := newTestService(t, repo, archiver)
	ctx := context.Background()

	seedSession(t, store, "u1")

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Reset(ctx)
	assert.ErrorIs(t, err, common.ErrStorage)

	assert.Nil(t, archiver.received, "nothing is archived when the reset failed")

	_, err = store.Get(ctx, "u1")
	assert.NoError(t, err, "sessions survive a failed reset")

	assert.NoError(t, mock.ExpectationsWereMet())
}
