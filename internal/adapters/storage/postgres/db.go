package postgres

import (
	"context"
	"database/sql"
	"time"

	"activity-planner/internal/domain/activities"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotFound es el sentinel del dominio: los servicios distinguen
// "no existe" de un fallo de infraestructura.
var ErrNotFound = activities.ErrNotFound

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
