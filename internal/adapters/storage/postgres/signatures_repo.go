package postgres

import (
	"context"
	"database/sql"

	"activity-planner/internal/domain/signatures"
)

type SignaturesRepo struct {
	db *sql.DB
}

func NewSignaturesRepo(db *sql.DB) *SignaturesRepo {
	return &SignaturesRepo{db: db}
}

func (r *SignaturesRepo) Upsert(ctx context.Context, sig signatures.Signature) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_signatures (
			activity_id, uid, signed_name, image_data_url, signed_at
		) VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (activity_id, uid) DO UPDATE
		SET signed_name = EXCLUDED.signed_name,
			image_data_url = EXCLUDED.image_data_url,
			signed_at = EXCLUDED.signed_at
	`,
		sig.ActivityID, sig.UID, sig.SignedName, sig.ImageDataURL, sig.SignedAt,
	)
	return err
}

func (r *SignaturesRepo) ListByActivity(ctx context.Context, activityID string) ([]signatures.Signature, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT activity_id, uid, signed_name, image_data_url, signed_at
		FROM activity_signatures
		WHERE activity_id = $1
		ORDER BY signed_at
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]signatures.Signature, 0)
	for rows.Next() {
		var sig signatures.Signature
		err := rows.Scan(&sig.ActivityID, &sig.UID, &sig.SignedName, &sig.ImageDataURL, &sig.SignedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, sig)
	}
	return out, rows.Err()
}
