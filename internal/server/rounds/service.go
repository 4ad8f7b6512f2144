// Package rounds implements the round-end reset: snapshot the board,
// return every signal to the baseline, and purge all hack sessions.
package rounds

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/lanternhq/lanternhack/internal/common"
	"github.com/lanternhq/lanternhack/internal/dbx"
	"github.com/lanternhq/lanternhack/internal/logging"
	"github.com/lanternhq/lanternhack/internal/server/config"
	"github.com/lanternhq/lanternhack/internal/server/metrics"
	"github.com/lanternhq/lanternhack/internal/server/models"
	"github.com/lanternhq/lanternhack/internal/server/repositories/repomanager"
	"github.com/lanternhq/lanternhack/internal/server/sessions"
)

// Archiver stores a snapshot of the board and returns the storage key.
type Archiver interface {
	StoreSnapshot(ctx context.Context, stations []*models.Station) (string, error)
}

// ResetResult reports what a round reset touched.
type ResetResult struct {
	Stations   int    `json:"stations"`
	ArchiveKey string `json:"archive_key,omitempty"`
}

type Service struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	sessions sessions.Store
	archiver Archiver
	logger   logging.Logger
	baseline int64
}

func NewService(db *sql.DB, repos repomanager.RepositoryManager, store sessions.Store,
	archiver Archiver, logger logging.Logger, cfg *config.Config) *Service {
	return &Service{
		db:       db,
		repos:    repos,
		sessions: store,
		archiver: archiver,
		logger:   logger.With("module", "rounds_service"),
		baseline: cfg.SignalBaseline,
	}
}

// Reset ends the current round. The pre-reset signal values are read and the
// reset is applied in one transaction, so the archived snapshot always holds
// the final board. Archiving is best-effort; purging sessions is not.
func (s *Service) Reset(ctx context.Context) (*ResetResult, error) {
	var snapshot []*models.Station

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Stations(tx)

		list, err := repo.GetAll(ctx)
		if err != nil {
			return err
		}
		snapshot = list

		return repo.ResetSignals(ctx, s.baseline)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: resetting signals: %v", common.ErrStorage, err)
	}

	archiveKey := ""
	if s.archiver != nil {
		key, err := s.archiver.StoreSnapshot(ctx, snapshot)
		if err != nil {
			s.logger.Warn(ctx, "round archive failed", "error", err)
		} else {
			archiveKey = key
		}
	}

	if err := s.sessions.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("%w: purging sessions: %v", common.ErrStorage, err)
	}

	for _, station := range snapshot {
		if station.IsActive {
			metrics.StationSignal.WithLabelValues(strconv.FormatInt(station.ID, 10)).Set(float64(s.baseline))
		}
	}

	s.logger.Info(ctx, "round reset", "stations", len(snapshot), "archive_key", archiveKey)
	return &ResetResult{Stations: len(snapshot), ArchiveKey: archiveKey}, nil
}
