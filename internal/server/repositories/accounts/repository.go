package accounts

import (
	"context"

	"github.com/lanternhq/lanternhack/internal/server/models"
)

// Repository supplies the raw material challenges are built from: the
// identities attached to a station and the global decoy password pool.
// Both are read-only from the hacking subsystem's point of view.
type Repository interface {
	GetCandidatesForStation(ctx context.Context, stationID int64) ([]*models.Account, error)
	GetDecoyPool(ctx context.Context) ([]string, error)
}
