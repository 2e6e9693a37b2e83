package calendar

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// Querier is the subset of pgxpool.Pool used to read holidays.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LoadHolidays reads every row of the holidays table.
func LoadHolidays(ctx context.Context, q Querier) ([]time.Time, error) {
	rows, err := q.Query(ctx, `SELECT day FROM holidays ORDER BY day`)
	if err != nil {
		return nil, errors.Wrap(err, "query holidays")
	}
	days, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, errors.Wrap(err, "scan holidays")
	}
	return days, nil
}
