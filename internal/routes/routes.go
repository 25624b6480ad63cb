package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/repositories"
	"inventory-system/internal/services"
	"inventory-system/pkg/config"
	"inventory-system/pkg/filestorage"
	"inventory-system/pkg/metrics"
	"inventory-system/pkg/middleware"
	"inventory-system/pkg/service"
)

type Loggers struct {
	Main   *zap.Logger
	Auth   *zap.Logger
	Import *zap.Logger
}

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: création des routes")

	// --- 0. composants communs ---
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)
	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Upload.TempDir)
	if err != nil {
		loggers.Main.Fatal("impossible de créer le stockage des fichiers", zap.Error(err))
	}
	txManager := repositories.NewTxManager(dbConn)

	recorder := metrics.NewNoopRecorder()
	if cfg.Metrics.Enabled {
		recorder = metrics.NewPrometheusRecorder()
		e.GET("/metrics", metrics.Handler())
	}

	// --- 1. repositories ---
	userRepo := repositories.NewUserRepository(dbConn, loggers.Auth)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	locationRepo := repositories.NewLocationRepository(loggers.Import)
	physicalRepo := repositories.NewPhysicalEquipmentRepository(loggers.Import)
	importRepo := repositories.NewImportRepository(dbConn, loggers.Import)
	materielRepo := repositories.NewMaterielRepository(dbConn, loggers.Main)
	statsRepo := repositories.NewStatisticsRepository(dbConn, loggers.Main)

	// --- 2. services ---
	authService := services.NewAuthService(userRepo, cacheRepo, jwtSvc, recorder, loggers.Auth, &cfg.Auth)
	resolver := services.NewIdentityResolver(locationRepo, physicalRepo, loggers.Import)
	importService := services.NewImportService(txManager, importRepo, resolver, recorder, loggers.Import)
	materielService := services.NewMaterielService(materielRepo, loggers.Main)
	statisticsService := services.NewStatisticsService(statsRepo, importRepo, cacheRepo, recorder, loggers.Main, cfg.Statistics.CacheTTL)

	// --- 3. routeurs ---
	runHealthRouter(e, dbConn, loggers.Main)
	runAuthRouter(e, authService, loggers.Auth, authMW)

	runUploadRouter(e, importService, fileStorage, loggers.Import, authMW)
	runMaterielRouter(e, materielService, loggers.Main, authMW)
	runStatisticsRouter(e, statisticsService, loggers.Main, authMW)

	loggers.Main.Info("InitRouter: routes créées")
}
