package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "activity-planner/internal/adapters/storage/memory"
	pg "activity-planner/internal/adapters/storage/postgres"
	_ "activity-planner/internal/docs"
	"activity-planner/internal/domain/activities"
	"activity-planner/internal/domain/profiles"
	"activity-planner/internal/domain/risks"
	"activity-planner/internal/domain/signatures"
	"activity-planner/internal/domain/tables"
	"activity-planner/internal/middleware"
	"activity-planner/internal/ports/auth"
	"activity-planner/internal/ports/identity"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev, headers X-Debug-*)
	Users        identity.Provider // puede ser nil (lookups devuelven not-found)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Secret compartido del hook de registro. Vacío => hook solo en modo dev.
	HookSecret string
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		activityRepo  activities.Repository
		riskRepo      risks.Repository
		tableRepo     tables.Repository
		signatureRepo signatures.Repository
		profileRepo   profiles.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		activityRepo = pg.NewActivitiesRepo(db)
		riskRepo = pg.NewRisksRepo(db)
		tableRepo = pg.NewTablesRepo(db)
		signatureRepo = pg.NewSignaturesRepo(db)
		profileRepo = pg.NewProfilesRepo(db)
	} else {
		activityRepo = mem.NewActivityRepo()
		riskRepo = mem.NewRiskRepo()
		tableRepo = mem.NewTableRepo()
		signatureRepo = mem.NewSignatureRepo()
		profileRepo = mem.NewProfileRepo()
	}

	// Services por módulo. El de actividades hace de guard para el resto.
	activitiesSvc := activities.NewService(activityRepo, opts.Users)
	risksSvc := risks.NewService(riskRepo, activitiesSvc)
	tablesSvc := tables.NewService(tableRepo, activitiesSvc)
	signaturesSvc := signatures.NewService(signatureRepo, activitiesSvc)
	profilesSvc := profiles.NewService(profileRepo, activitiesSvc)

	// Rutas por módulo
	activities.RegisterRoutes(r, activitiesSvc)
	risks.RegisterRoutes(r, risksSvc)
	tables.RegisterRoutes(r, tablesSvc)
	signatures.RegisterRoutes(r, signaturesSvc)
	profiles.RegisterRoutes(r, profilesSvc, profiles.HookOptions{
		Secret:  opts.HookSecret,
		DevMode: opts.AuthVerifier == nil,
	})

	return r
}
