package data

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

var stateQueries = map[string]string{
	"assessments": "SELECT COUNT(*) FROM assessment",
	"candidates":  "SELECT COUNT(DISTINCT candidate) FROM assessment",
	"scores":      "SELECT COUNT(*) FROM label_score",
	"labels":      "SELECT COUNT(DISTINCT label) FROM label_score",
}

// GetDataState returns row counts of the store.
func GetDataState(ctx context.Context, db *sql.DB) (map[string]int64, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	state := make(map[string]int64, len(stateQueries))
	for k, q := range stateQueries {
		var count int64
		if err := db.QueryRowContext(ctx, q).Scan(&count); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				state[k] = 0
				continue
			}
			return nil, errors.Wrapf(err, "error getting %s count", k)
		}
		state[k] = count
	}

	return state, nil
}
