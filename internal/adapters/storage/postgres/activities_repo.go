package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"activity-planner/internal/domain/activities"
)

// ActivitiesRepo guarda la actividad como fila + dos columnas JSONB para el
// RoleMap (uid→rol y email→rol).
type ActivitiesRepo struct {
	db *sql.DB
}

func NewActivitiesRepo(db *sql.DB) *ActivitiesRepo {
	return &ActivitiesRepo{db: db}
}

const activityColumns = `
	id, name, location,
	start_date, start_time, end_date, end_time,
	people_by_uid, people_by_email,
	created_at, updated_at
`

func (r *ActivitiesRepo) Create(ctx context.Context, a activities.Activity) error {
	byUID, byEmail, err := marshalPeople(a.People)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO activities (`+activityColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		a.ID, a.Name, a.Location,
		a.StartDate, a.StartTime, a.EndDate, a.EndTime,
		byUID, byEmail,
		a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (r *ActivitiesRepo) GetByID(ctx context.Context, id string) (activities.Activity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return activities.Activity{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE id = $1
	`, id)

	return scanActivity(row)
}

func (r *ActivitiesRepo) Update(ctx context.Context, a activities.Activity) error {
	byUID, byEmail, err := marshalPeople(a.People)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE activities
		SET
			name = $2, location = $3,
			start_date = $4, start_time = $5, end_date = $6, end_time = $7,
			people_by_uid = $8, people_by_email = $9,
			updated_at = $10
		WHERE id = $1
	`,
		a.ID, a.Name, a.Location,
		a.StartDate, a.StartTime, a.EndDate, a.EndTime,
		byUID, byEmail,
		a.UpdatedAt,
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

func (r *ActivitiesRepo) ListByMember(ctx context.Context, uid string) ([]activities.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE people_by_uid ? $1
	`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

func (r *ActivitiesRepo) ListByPendingEmail(ctx context.Context, email string) ([]activities.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE people_by_email ? $1
	`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

func (r *ActivitiesRepo) ListStartingOn(ctx context.Context, date string) ([]activities.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE start_date = $1
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

func marshalPeople(m activities.RoleMap) ([]byte, []byte, error) {
	byUID, err := json.Marshal(m.ByUID)
	if err != nil {
		return nil, nil, err
	}
	byEmail, err := json.Marshal(m.ByEmail)
	if err != nil {
		return nil, nil, err
	}
	return byUID, byEmail, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (activities.Activity, error) {
	var (
		a       activities.Activity
		byUID   []byte
		byEmail []byte
	)

	err := row.Scan(
		&a.ID, &a.Name, &a.Location,
		&a.StartDate, &a.StartTime, &a.EndDate, &a.EndTime,
		&byUID, &byEmail,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return activities.Activity{}, ErrNotFound
	}
	if err != nil {
		return activities.Activity{}, err
	}

	a.People = activities.NewRoleMap()
	if err := json.Unmarshal(byUID, &a.People.ByUID); err != nil {
		return activities.Activity{}, err
	}
	if err := json.Unmarshal(byEmail, &a.People.ByEmail); err != nil {
		return activities.Activity{}, err
	}
	return a, nil
}

func scanActivities(rows *sql.Rows) ([]activities.Activity, error) {
	out := make([]activities.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
