package storage

import (
	"context"
	"time"
)

// Export is a row of the exports table.
type Export struct {
	ID               string
	SessionID        string
	Filename         string
	Format           string
	Village          string
	Year             int64
	ByteSize         int64
	RevenueFinal     int64
	ExpenditureFinal int64
	ResidualFinal    int64
	CreatedAt        time.Time
}

const createExport = `
INSERT INTO exports (
    id, session_id, filename, format, village, year, byte_size,
    revenue_final, expenditure_final, residual_final, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING
`

type CreateExportParams struct {
	ID               string
	SessionID        string
	Filename         string
	Format           string
	Village          string
	Year             int64
	ByteSize         int64
	RevenueFinal     int64
	ExpenditureFinal int64
	ResidualFinal    int64
	CreatedAt        time.Time
}

// CreateExport inserts an export row. Inserting an id twice is a no-op, so
// redelivered journal messages are harmless.
func (q *Queries) CreateExport(ctx context.Context, arg CreateExportParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createExport,
		arg.ID,
		arg.SessionID,
		arg.Filename,
		arg.Format,
		arg.Village,
		arg.Year,
		arg.ByteSize,
		arg.RevenueFinal,
		arg.ExpenditureFinal,
		arg.ResidualFinal,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listRecentExports = `
SELECT id, session_id, filename, format, village, year, byte_size,
       revenue_final, expenditure_final, residual_final, created_at
FROM exports
ORDER BY created_at DESC, id
LIMIT ?
`

func (q *Queries) ListRecentExports(ctx context.Context, limit int64) ([]Export, error) {
	rows, err := q.db.QueryContext(ctx, listRecentExports, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Export
	for rows.Next() {
		var i Export
		if err := rows.Scan(
			&i.ID,
			&i.SessionID,
			&i.Filename,
			&i.Format,
			&i.Village,
			&i.Year,
			&i.ByteSize,
			&i.RevenueFinal,
			&i.ExpenditureFinal,
			&i.ResidualFinal,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countExports = `SELECT COUNT(*) FROM exports`

func (q *Queries) CountExports(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countExports).Scan(&n)
	return n, err
}
