package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"activity-planner/internal/domain/tables"
)

type TablesRepo struct {
	db *sql.DB
}

func NewTablesRepo(db *sql.DB) *TablesRepo {
	return &TablesRepo{db: db}
}

func (r *TablesRepo) Create(ctx context.Context, row tables.Row) error {
	cells, err := json.Marshal(row.Cells)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO activity_table_rows (
			id, activity_id, kind, position, cells, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		row.ID, row.ActivityID, row.Kind, row.Position, cells,
		row.CreatedAt, row.UpdatedAt,
	)
	return err
}

func (r *TablesRepo) Update(ctx context.Context, row tables.Row) error {
	cells, err := json.Marshal(row.Cells)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE activity_table_rows
		SET position = $2, cells = $3, updated_at = $4
		WHERE id = $1
	`,
		row.ID, row.Position, cells, row.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TablesRepo) GetByID(ctx context.Context, id string) (tables.Row, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return tables.Row{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, activity_id, kind, position, cells, created_at, updated_at
		FROM activity_table_rows
		WHERE id = $1
	`, id)

	return scanTableRow(row)
}

func (r *TablesRepo) ListByActivityKind(ctx context.Context, activityID, kind string) ([]tables.Row, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, activity_id, kind, position, cells, created_at, updated_at
		FROM activity_table_rows
		WHERE activity_id = $1 AND kind = $2
		ORDER BY position
	`, activityID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]tables.Row, 0)
	for rows.Next() {
		row, err := scanTableRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *TablesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activity_table_rows WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTableRow(row rowScanner) (tables.Row, error) {
	var (
		out   tables.Row
		cells []byte
	)

	err := row.Scan(
		&out.ID, &out.ActivityID, &out.Kind, &out.Position, &cells,
		&out.CreatedAt, &out.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return tables.Row{}, ErrNotFound
	}
	if err != nil {
		return tables.Row{}, err
	}

	if len(cells) > 0 {
		if err := json.Unmarshal(cells, &out.Cells); err != nil {
			return tables.Row{}, err
		}
	}
	return out, nil
}
