package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tilab/tilab/docs" // Import generated swagger docs
	appControllers "github.com/tilab/tilab/internal/app/controllers"
	appRepos "github.com/tilab/tilab/internal/app/repositories"
	appRoutes "github.com/tilab/tilab/internal/app/routes"
	appServices "github.com/tilab/tilab/internal/app/services"
	"github.com/tilab/tilab/internal/config"
	"github.com/tilab/tilab/internal/db"
	appMiddleware "github.com/tilab/tilab/internal/middleware"
	pkgAuth "github.com/tilab/tilab/internal/pkg/auth"
	"github.com/tilab/tilab/internal/pkg/email"
	"github.com/tilab/tilab/internal/pkg/helpers"
	"github.com/tilab/tilab/internal/pkg/logger"
	"github.com/tilab/tilab/internal/pkg/simulation"
	"github.com/tilab/tilab/internal/pkg/websocket"
	"github.com/tilab/tilab/internal/seed"
	"github.com/tilab/tilab/internal/store"
)

// DefaultConfigPath is used when no --config flag is given
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store          store.Store
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	AuthService    *appServices.AuthService
	JWTService     *pkgAuth.JWTService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    *appControllers.Controllers
	Hub            *websocket.Hub
	WSHandler      *websocket.Handler
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	level := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", level.String()).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// OpenStore opens the storage backend selected by the configuration
func OpenStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (store.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory storage, records are lost on restart")
		return store.NewMemory(), nil

	case config.DriverBolt:
		if dir := filepath.Dir(cfg.Storage.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create storage directory: %w", err)
			}
		}
		st, err := store.OpenBolt(cfg.Storage.Path)
		if err != nil {
			lgr.Error().Err(err).Str("path", cfg.Storage.Path).Msg("Failed to open bolt store")
			return nil, err
		}
		lgr.Info().Str("path", cfg.Storage.Path).Msg("Bolt store opened")
		return st, nil

	case config.DriverPostgres:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := database.Pool.Ping(pingCtx); err != nil {
			lgr.Error().Err(err).Msg("Failed to ping database")
			database.Close()
			return nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		st, err := store.NewPostgres(ctx, database)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		return st, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// SeedIfConfigured loads the demo data when storage.seed_demo_data is set
func SeedIfConfigured(ctx context.Context, cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) {
	if !cfg.Storage.SeedDemoData {
		return
	}
	if _, err := seed.CreateDefaultData(ctx, repos, nil, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// BuildDependencies initializes repositories, services and controllers over st.
// The event hub runs until ctx is cancelled.
func BuildDependencies(ctx context.Context, cfg *config.Config, st store.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Store: st, Logger: lgr}

	deps.Repos = appRepos.NewRepositories(st)

	sim, err := simulation.FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure simulation: %w", err)
	}

	deps.Hub = websocket.NewHub(logger.WithComponent("events"))
	go deps.Hub.Run(ctx)
	websocket.NewRecorder(deps.Hub, logger.WithComponent("audit")).Start(ctx)
	deps.WSHandler = websocket.NewHandler(deps.Hub, logger.WithComponent("websocket"))

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.Email.Host,
		Port:      cfg.Email.Port,
		Username:  cfg.Email.Username,
		Password:  cfg.Email.Password,
		FromName:  cfg.Email.FromName,
		FromEmail: cfg.Email.FromEmail,
		UseTLS:    cfg.Email.UseTLS,
	}, logger.WithComponent("email"))

	svcLogger := logger.WithComponent("services")
	deps.Services = appServices.NewServices(appServices.Deps{
		Repos:     deps.Repos,
		Simulator: sim,
		Events:    deps.Hub,
		Email:     mailer,
		Logger:    &svcLogger,
	})

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 8*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthService = appServices.NewAuthService(cfg.Auth.Users, deps.JWTService, logger.WithComponent("auth"))
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, cfg.Auth.Enabled)
	if !deps.AuthMiddleware.Enabled() {
		lgr.Warn().Msg("Authentication disabled, all routes are open")
	}

	deps.Controllers = &appControllers.Controllers{
		HealthController:    appControllers.NewHealthController(st, cfg.Storage.Driver),
		AuthController:      appControllers.NewAuthController(deps.AuthService, lgr),
		ComponentController: appControllers.NewComponentController(deps.Services.ComponentService),
		CourseController:    appControllers.NewCourseController(deps.Services.CourseService, deps.Services.SectionService),
		KitController:       appControllers.NewKitController(deps.Services.KitService),
		LoanController:      appControllers.NewLoanController(deps.Services.LoanService),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.WithComponent("http")))
	appRoutes.SetupCORS(router, cfg.Server.CORSOrigins)

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router, deps.Controllers, deps.WSHandler, deps.AuthMiddleware)

	return router
}
