package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"acen-backend/internal/apikeys"
	"acen-backend/internal/calendars"
	"acen-backend/internal/dates"
	"acen-backend/internal/evaluator"
	"acen-backend/internal/feedback"
	"acen-backend/internal/products"
	"acen-backend/internal/services/health"
	"acen-backend/internal/shared/auth"
	"acen-backend/internal/shared/config"
	"acen-backend/internal/shared/server"
	"acen-backend/internal/shared/server/middleware"
	"acen-backend/internal/shared/storage/db"
	"acen-backend/internal/shared/telemetry"
	"acen-backend/internal/templates"
	"acen-backend/internal/users"
)

const tokenTTL = 24 * time.Hour

// App holds shared dependencies and the HTTP router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	UsersRepo     users.Repo
	APIKeysRepo   apikeys.Repo
	CalendarsRepo calendars.Repo
	DatesRepo     dates.Repo
	ProductsRepo  products.Repo
	TemplatesRepo templates.Repo
	FeedbackRepo  feedback.Repo
	Tx            feedback.TxRunner

	UsersService     *users.Service
	APIKeysService   *apikeys.Service
	CalendarsService *calendars.Service
	DatesService     *dates.Service
	ProductsService  *products.Service
	TemplatesService *templates.Service
	EvaluatorService *evaluator.Service
	FeedbackService  *feedback.Service
	Signer           *auth.Signer
}

// Build prepares repositories, services and the router. With no DATABASE_URL
// in dev/local it falls back to in-memory repositories.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if sqlDB != nil {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	app := &App{Config: cfg, DB: sqlDB}
	buildRepos(app)
	if err := buildServices(app); err != nil {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	app.Router = buildRouter(app)
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_storage", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_storage", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildRepos(app *App) {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.APIKeysRepo = &apikeys.PGRepo{DB: app.DB}
		app.CalendarsRepo = &calendars.PGRepo{DB: app.DB}
		app.DatesRepo = &dates.PGRepo{DB: app.DB}
		app.ProductsRepo = &products.PGRepo{DB: app.DB}
		app.TemplatesRepo = &templates.PGRepo{DB: app.DB}
		app.FeedbackRepo = &feedback.PGRepo{DB: app.DB}
		app.Tx = &feedback.PGTxRunner{DB: app.DB}
		return
	}

	calRepo := calendars.NewMemoryRepo()
	dateRepo := dates.NewMemoryRepo()
	prodRepo := products.NewMemoryRepo()
	fbRepo := feedback.NewMemoryRepo()
	dateRepo.Severities = fbRepo

	app.UsersRepo = users.NewMemoryRepo()
	app.APIKeysRepo = apikeys.NewMemoryRepo()
	app.CalendarsRepo = calRepo
	app.DatesRepo = dateRepo
	app.ProductsRepo = prodRepo
	app.TemplatesRepo = templates.NewMemoryRepo()
	app.FeedbackRepo = fbRepo
	app.Tx = feedback.NewMemoryTxRunner(calRepo, dateRepo, prodRepo, fbRepo)
}

func buildServices(app *App) error {
	cfg := app.Config

	pack, err := feedback.LoadRulePack(cfg.RulesPath)
	if err != nil {
		return err
	}
	engine, err := feedback.NewEngine(feedback.EngineOptions{
		AdherenceThreshold: cfg.AdherenceThreshold,
		Pack:               pack,
	})
	if err != nil {
		return fmt.Errorf("feedback engine: %w", err)
	}
	evalOpts := evaluator.Options{TrendWindow: cfg.TrendWindow}

	if strings.TrimSpace(cfg.JWTSecret) != "" {
		signer, err := auth.NewSigner(cfg.JWTSecret, tokenTTL)
		if err != nil {
			return err
		}
		app.Signer = signer
	}

	app.UsersService = users.NewService(app.UsersRepo)
	app.APIKeysService = apikeys.NewService(app.APIKeysRepo)
	app.CalendarsService = calendars.NewService(app.CalendarsRepo)
	app.TemplatesService = templates.NewService(app.TemplatesRepo)
	if app.DB != nil {
		app.TemplatesService.InTx = templates.PGTx(app.DB)
	} else if detacher, ok := app.DatesRepo.(templates.DateDetacher); ok {
		app.TemplatesService.Dates = detacher
	}
	app.DatesService = dates.NewService(app.DatesRepo, app.CalendarsRepo)
	app.DatesService.Templates = app.TemplatesService
	app.ProductsService = products.NewService(app.ProductsRepo)
	app.EvaluatorService = evaluator.NewService(app.CalendarsRepo, app.DatesRepo, evalOpts)
	app.FeedbackService = feedback.NewService(app.Tx, engine, evalOpts, app.FeedbackRepo, app.DatesRepo)
	return nil
}

func buildRouter(app *App) *gin.Engine {
	cfg := app.Config
	authCfg := middleware.AuthConfig{
		AllowHeaderIdentity: cfg.AllowUserHeader,
		Users:               app.UsersService,
	}
	if app.Signer != nil {
		authCfg.Tokens = app.Signer
	}

	return server.NewRouter(server.RouterDeps{
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		Auth:            authCfg,
		APIKeys:         app.APIKeysService,
		GenerateLimiter: middleware.NewRateLimiter(cfg.GenerateRatePerSec, cfg.GenerateRateBurst, nil),
		Health:          health.NewService(pingerOrNil(app.DB)),
		UserHandler:     users.NewHandler(app.UsersService),
		CalendarHandler: calendars.NewHandler(app.CalendarsService),
		DateHandler:     dates.NewHandler(app.DatesService),
		ProductHandler:  products.NewHandler(app.ProductsService),
		TemplateHandler: templates.NewHandler(app.TemplatesService),
		EvaluateHandler: evaluator.NewHandler(app.EvaluatorService),
		FeedbackHandler: feedback.NewHandler(app.FeedbackService, cfg.SuggestDefaultTop),
	})
}

// pingerOrNil avoids wrapping a nil *sql.DB in a non-nil interface.
func pingerOrNil(sqlDB *sql.DB) health.Pinger {
	if sqlDB == nil {
		return nil
	}
	return sqlDB
}
