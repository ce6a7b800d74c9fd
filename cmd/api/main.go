package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"activity-planner/internal/adapters/auth/odin"
	"activity-planner/internal/adapters/notify/relay"
	pg "activity-planner/internal/adapters/storage/postgres"
	"activity-planner/internal/platform/config"
	"activity-planner/internal/platform/logger"
	"activity-planner/internal/ports/auth"
	"activity-planner/internal/ports/identity"
	"activity-planner/internal/ports/notify"
	"activity-planner/internal/reminders"
	"activity-planner/internal/router"

	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	lg := logger.NewFromEnv()

	// Odin: si no está configurado corremos en modo dev (headers X-Debug-*).
	var (
		verifier auth.AuthVerifier
		users    identity.Provider
	)
	if cfg.OdinBaseURL != "" {
		client, err := odin.NewClient(odin.Config{
			BaseURL: cfg.OdinBaseURL,
			APIKey:  cfg.OdinAPIKey,
		})
		if err != nil {
			log.Fatalf("odin client error: %v", err)
		}
		verifier = odin.NewVerifier(client)
		users = client
	} else {
		lg.Warn("odin not configured, running in dev mode", nil)
	}

	var db *sql.DB
	if cfg.DBDSN != "" {
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			log.Fatalf("postgres error: %v", err)
		}
		defer db.Close()
	}

	var notifier notify.Notifier
	if cfg.MailRelayURL != "" {
		notifier, err = relay.New(relay.Config{
			BaseURL: cfg.MailRelayURL,
			APIKey:  cfg.MailRelayKey,
		})
		if err != nil {
			log.Fatalf("mail relay error: %v", err)
		}
	} else {
		notifier = logNotifier{log: lg}
	}

	if cfg.RemindersEnabled {
		if db == nil {
			lg.Warn("reminders enabled but DB_DSN is empty, skipping sweeper", nil)
		} else {
			sweeper := reminders.NewSweeper(pg.NewActivitiesRepo(db), users, notifier, cfg.MailReplyTo, lg)

			c := cron.New()
			_, err := c.AddFunc(cfg.RemindersCron, func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				defer cancel()
				_ = sweeper.Run(ctx)
			})
			if err != nil {
				log.Fatalf("reminders cron error: %v", err)
			}
			c.Start()
			defer c.Stop()
			lg.Info("reminders sweeper scheduled", map[string]any{"cron": cfg.RemindersCron})
		}
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Users:        users,
		DB:           db,
		HookSecret:   cfg.UserHookSecret,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lg.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// logNotifier reemplaza al relay cuando no hay MAIL_RELAY_URL: deja el correo
// en el log y listo. Útil en dev para ver qué se habría mandado.
type logNotifier struct {
	log logger.Logger
}

func (n logNotifier) Send(_ context.Context, msg notify.Message) error {
	n.log.Info("mail (not sent, relay not configured)", map[string]any{
		"to":      msg.To,
		"subject": msg.Subject,
	})
	return nil
}
