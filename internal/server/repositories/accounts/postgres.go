package accounts

import (
	"context"
	"fmt"

	"github.com/lanternhq/lanternhack/internal/dbx"
	"github.com/lanternhq/lanternhack/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetCandidatesForStation returns every account of the station with its
// password list assembled in position order. Accounts without passwords are
// included with an empty list; the challenge generator skips them.
func (r *PostgresRepository) GetCandidatesForStation(ctx context.Context, stationID int64) ([]*models.Account, error) {
	query :=
		`SELECT a.id, a.station_id, a.user_name, p.password
		 FROM station_accounts a
		 LEFT JOIN account_passwords p ON p.account_id = a.id
		 WHERE a.station_id = $1
		 ORDER BY a.id, p.position
		 `

	rows, err := r.db.QueryContext(ctx, query, stationID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Account
	byID := map[int64]*models.Account{}

	for rows.Next() {
		var (
			id       int64
			stID     int64
			userName string
			password *string
		)
		if err := rows.Scan(&id, &stID, &userName, &password); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		acc, ok := byID[id]
		if !ok {
			acc = &models.Account{ID: id, StationID: stID, UserName: userName}
			byID[id] = acc
			result = append(result, acc)
		}
		if password != nil {
			acc.Passwords = append(acc.Passwords, *password)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetDecoyPool(ctx context.Context) ([]string, error) {
	query :=
		`SELECT password FROM decoy_passwords
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var password string
		if err := rows.Scan(&password); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, password)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
