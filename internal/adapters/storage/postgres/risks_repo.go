package postgres

import (
	"context"
	"database/sql"
	"strings"

	"activity-planner/internal/domain/risks"
)

type RisksRepo struct {
	db *sql.DB
}

func NewRisksRepo(db *sql.DB) *RisksRepo {
	return &RisksRepo{db: db}
}

func (r *RisksRepo) Create(ctx context.Context, e risks.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_risks (
			id, activity_id, description, likelihood, consequence, mitigation,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		e.ID, e.ActivityID, e.Description, e.Likelihood, e.Consequence, e.Mitigation,
		e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *RisksRepo) Update(ctx context.Context, e risks.Entry) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE activity_risks
		SET description = $2, likelihood = $3, consequence = $4, mitigation = $5,
			updated_at = $6
		WHERE id = $1
	`,
		e.ID, e.Description, e.Likelihood, e.Consequence, e.Mitigation, e.UpdatedAt,
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

func (r *RisksRepo) GetByID(ctx context.Context, id string) (risks.Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return risks.Entry{}, ErrNotFound
	}

	var e risks.Entry
	err := r.db.QueryRowContext(ctx, `
		SELECT id, activity_id, description, likelihood, consequence, mitigation,
			created_at, updated_at
		FROM activity_risks
		WHERE id = $1
	`, id).Scan(
		&e.ID, &e.ActivityID, &e.Description, &e.Likelihood, &e.Consequence, &e.Mitigation,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return risks.Entry{}, ErrNotFound
	}
	if err != nil {
		return risks.Entry{}, err
	}
	return e, nil
}

func (r *RisksRepo) ListByActivity(ctx context.Context, activityID string) ([]risks.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, activity_id, description, likelihood, consequence, mitigation,
			created_at, updated_at
		FROM activity_risks
		WHERE activity_id = $1
		ORDER BY created_at
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]risks.Entry, 0)
	for rows.Next() {
		var e risks.Entry
		err := rows.Scan(
			&e.ID, &e.ActivityID, &e.Description, &e.Likelihood, &e.Consequence, &e.Mitigation,
			&e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *RisksRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activity_risks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
