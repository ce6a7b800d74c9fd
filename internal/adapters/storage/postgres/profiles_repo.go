package postgres

import (
	"context"
	"database/sql"
	"strings"

	"activity-planner/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func (r *ProfilesRepo) Create(ctx context.Context, p profiles.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (
			uid, display_name, email, phone,
			emergency_name, emergency_phone, subscribe_reminders,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		p.UID, p.DisplayName, p.Email, p.Phone,
		p.EmergencyName, p.EmergencyPhone, p.SubscribeReminders,
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *ProfilesRepo) GetByUID(ctx context.Context, uid string) (profiles.Profile, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return profiles.Profile{}, ErrNotFound
	}

	var p profiles.Profile
	err := r.db.QueryRowContext(ctx, `
		SELECT uid, display_name, email, phone,
			emergency_name, emergency_phone, subscribe_reminders,
			created_at, updated_at
		FROM profiles
		WHERE uid = $1
	`, uid).Scan(
		&p.UID, &p.DisplayName, &p.Email, &p.Phone,
		&p.EmergencyName, &p.EmergencyPhone, &p.SubscribeReminders,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return profiles.Profile{}, ErrNotFound
	}
	if err != nil {
		return profiles.Profile{}, err
	}
	return p, nil
}

func (r *ProfilesRepo) Update(ctx context.Context, p profiles.Profile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET display_name = $2, email = $3, phone = $4,
			emergency_name = $5, emergency_phone = $6, subscribe_reminders = $7,
			updated_at = $8
		WHERE uid = $1
	`,
		p.UID, p.DisplayName, p.Email, p.Phone,
		p.EmergencyName, p.EmergencyPhone, p.SubscribeReminders,
		p.UpdatedAt,
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
