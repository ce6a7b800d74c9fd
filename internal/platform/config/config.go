package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config es toda la configuración del servicio, desde env vars.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Postgres. Vacío => repos in-memory (modo dev).
	DBDSN string `env:"DB_DSN"`

	// Odin (proveedor de identidad). Vacío => sin verifier (modo dev).
	OdinBaseURL string `env:"ODIN_BASE_URL"`
	OdinAPIKey  string `env:"ODIN_API_KEY"`

	// Mail relay para notificaciones salientes. Vacío => notifier que solo loguea.
	MailRelayURL string `env:"MAIL_RELAY_URL"`
	MailRelayKey string `env:"MAIL_RELAY_KEY"`
	MailReplyTo  string `env:"MAIL_REPLY_TO" envDefault:"noreply@activity-planner.local"`

	// Hook de registro (POST /hooks/user-created). Vacío => hook deshabilitado
	// salvo en modo dev.
	UserHookSecret string `env:"USER_HOOK_SECRET"`

	// Barrido de recordatorios.
	RemindersEnabled bool   `env:"REMINDERS_ENABLED" envDefault:"false"`
	RemindersCron    string `env:"REMINDERS_CRON" envDefault:"0 7 * * *"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
