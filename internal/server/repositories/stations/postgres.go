package stations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lanternhq/lanternhack/internal/common"
	"github.com/lanternhq/lanternhack/internal/dbx"
	"github.com/lanternhq/lanternhack/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Station, error) {
	query :=
		`SELECT id, name, is_active, signal_value FROM stations
		 WHERE id = $1
		 `

	station := &models.Station{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&station.ID, &station.Name, &station.IsActive, &station.SignalValue)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return station, nil
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]*models.Station, error) {
	query :=
		`SELECT id, name, is_active, signal_value FROM stations
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Station
	for rows.Next() {
		station := &models.Station{}
		if err := rows.Scan(&station.ID, &station.Name, &station.IsActive, &station.SignalValue); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, station)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// UpdateSignal persists a new signal value in a single statement. There is
// no version check; concurrent writers to the same station are resolved
// last-write-wins.
func (r *PostgresRepository) UpdateSignal(ctx context.Context, id int64, value int64) error {
	query :=
		`UPDATE stations SET signal_value = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

// ResetSignals pulls every active station back to the baseline. Used by the
// round-end reset path.
func (r *PostgresRepository) ResetSignals(ctx context.Context, baseline int64) error {
	query :=
		`UPDATE stations SET signal_value = $1
		 WHERE is_active
		 `

	if _, err := r.db.ExecContext(ctx, query, baseline); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
