package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/applytrack/applytrack/docs" // Import generated swagger docs
	appControllers "github.com/applytrack/applytrack/internal/app/controllers"
	appMigrations "github.com/applytrack/applytrack/internal/app/migrations"
	appRepos "github.com/applytrack/applytrack/internal/app/repositories"
	appRoutes "github.com/applytrack/applytrack/internal/app/routes"
	appServices "github.com/applytrack/applytrack/internal/app/services"
	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/internal/db"
	appMiddleware "github.com/applytrack/applytrack/internal/middleware"
	pkgAuth "github.com/applytrack/applytrack/internal/pkg/auth"
	"github.com/applytrack/applytrack/internal/pkg/filestorage"
	"github.com/applytrack/applytrack/internal/pkg/helpers"
	"github.com/applytrack/applytrack/internal/pkg/logger"
	"github.com/applytrack/applytrack/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService           *appServices.AuthService
	ProfileService        *appServices.ProfileService
	ApplicationService    *appServices.ApplicationService
	UniversityService     *appServices.UniversityService
	ParentService         *appServices.ParentService
	AuthController        *appControllers.AuthController
	ProfileController     *appControllers.ProfileController
	ApplicationController *appControllers.ApplicationController
	UniversityController  *appControllers.UniversityController
	ParentController      *appControllers.ParentController
	AuthMiddleware        *appMiddleware.AuthMiddleware
	Repos                 *appRepos.Repositories
	JWTService            *pkgAuth.JWTService
	FileStorage           *filestorage.LocalStorage
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Seed the catalog after migrations; a failure is logged but does
	// not block startup.
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// File storage serves avatars at the /uploads static path.
	var err error
	baseURL := cfg.Server.PublicURL
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port
	}
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.IdentityRepository,
		deps.Repos.ProfileRepository,
		deps.Repos.StudentRepository,
		deps.Repos.ParentRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		cfg.Auth.PasswordMinLength,
		lgr,
	)
	deps.ProfileService = appServices.NewProfileService(
		deps.Repos.ProfileRepository,
		deps.Repos.StudentRepository,
		deps.Repos.ParentRepository,
		deps.FileStorage,
		lgr,
	)
	deps.ApplicationService = appServices.NewApplicationService(
		deps.Repos.ApplicationRepository,
		deps.Repos.RequirementRepository,
		deps.Repos.UniversityRepository,
		deps.Repos.ActivityRepository,
		deps.Repos.ParentRepository,
		cfg.Applications.UniquePerType,
		lgr,
	)
	deps.UniversityService = appServices.NewUniversityService(deps.Repos.UniversityRepository, lgr)
	deps.ParentService = appServices.NewParentService(
		deps.Repos.ParentRepository,
		deps.Repos.ProfileRepository,
		deps.Repos.ApplicationRepository,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.ProfileController = appControllers.NewProfileController(deps.ProfileService, lgr)
	deps.ApplicationController = appControllers.NewApplicationController(deps.ApplicationService, lgr)
	deps.UniversityController = appControllers.NewUniversityController(deps.UniversityService, lgr)
	deps.ParentController = appControllers.NewParentController(deps.ParentService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, dbPool *pgxpool.Pool, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ProfileController,
		deps.ApplicationController,
		deps.UniversityController,
		deps.ParentController,
		deps.AuthMiddleware,
		dbPool,
	)

	return router
}
