package stations

import (
	"context"

	"github.com/lanternhq/lanternhack/internal/server/models"
)

// Repository is the durable record of every station. UpdateSignal is the
// single atomic write primitive shared by the signal engine and the decay
// scheduler; last write wins.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.Station, error)
	GetAll(ctx context.Context) ([]*models.Station, error)
	UpdateSignal(ctx context.Context, id int64, value int64) error
	ResetSignals(ctx context.Context, baseline int64) error
}
