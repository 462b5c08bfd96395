// Точка входа Registry Module — реестр физических документов с RFID-метками.
// Загружает конфигурацию, инициализирует in-memory хранилища с начальными
// данными, blob-хранилище, сервисный слой и API handlers, запускает фоновые
// задачи (пометка просроченных выдач, topologymetrics), HTTP-сервер с JWT
// middleware и graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/bigkaa/filetrack/registry-module/internal/api/handlers"
	"github.com/bigkaa/filetrack/registry-module/internal/api/middleware"
	"github.com/bigkaa/filetrack/registry-module/internal/blobstore"
	"github.com/bigkaa/filetrack/registry-module/internal/config"
	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
	"github.com/bigkaa/filetrack/registry-module/internal/repository"
	"github.com/bigkaa/filetrack/registry-module/internal/server"
	"github.com/bigkaa/filetrack/registry-module/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Registry Module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// Предупреждения о дефолтных значениях topologymetrics
	if os.Getenv("RM_DEPHEALTH_GROUP") == "" {
		logger.Warn("RM_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	ctx := context.Background()

	// 3. In-memory хранилища с начальными данными
	seed := repository.Seed()
	directoryRepo := repository.NewDirectoryRepository(seed.Departments, seed.Locations)
	fileRepo := repository.NewFileRepository()
	issueRepo := repository.NewIssueRepository()
	historyRepo := repository.NewLocationHistoryRepository()
	requestRepo := repository.NewRequestRepository()

	if err := seed.Apply(ctx, fileRepo, issueRepo, historyRepo, requestRepo); err != nil {
		logger.Error("Ошибка загрузки начальных данных", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Начальные данные загружены",
		slog.Int("departments", len(seed.Departments)),
		slog.Int("locations", len(seed.Locations)),
		slog.Int("files", len(seed.Files)),
	)

	// 4. Blob-хранилище (memory или s3)
	blobs, err := blobstore.New(ctx, blobstore.Config{
		Type:            cfg.BlobStoreType,
		Bucket:          cfg.S3Bucket,
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		logger.Error("Ошибка создания blob-хранилища", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Blob-хранилище инициализировано", slog.String("type", cfg.BlobStoreType))

	// 5. Services
	directorySvc := service.NewDirectoryService(directoryRepo, logger)
	filesSvc := service.NewFileRegistryService(fileRepo, logger)
	trackerSvc := service.NewLocationTrackerService(historyRepo, filesSvc, logger)
	issuesSvc := service.NewIssueLedgerService(issueRepo, filesSvc, trackerSvc, logger)
	requestsSvc := service.NewRequestQueueService(requestRepo, cfg.SubmitDelay, logger)

	// 6. Обработчики одобрения заявок.
	// Fallback-локация выдачи — первая локация справочника (Main Archive).
	fallbackLoc := seed.Locations[0]
	requestsSvc.RegisterHandler(
		model.RequestTypeIssue,
		service.NewIssueApprovalHandler(filesSvc, issuesSvc, fallbackLoc, logger),
	)
	requestsSvc.RegisterHandler(
		model.RequestTypeUpload,
		service.NewUploadApprovalHandler(filesSvc, blobs, requestsSvc, logger),
	)

	// 7. Фоновая пометка просроченных выдач
	sweeper := service.NewOverdueSweeper(issuesSvc, cfg.OverdueSweepInterval, logger)
	sweeper.Start(ctx)

	// 8. topologymetrics — мониторинг зависимостей (Keycloak + S3)
	var dephealthSvc *service.DephealthService
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"registry-module",
		cfg.DephealthGroup,
		cfg.JWTJWKSURL,
		cfg.S3Endpoint,
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 9. Readiness checkers (Keycloak + blob-хранилище)
	kcChecker, err := middleware.NewKeycloakReadinessChecker(cfg.JWTJWKSURL, cfg.KeycloakCACertPath, cfg.KeycloakReadinessTimeout)
	if err != nil {
		logger.Error("Ошибка создания Keycloak readiness checker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	blobChecker := &blobReadinessChecker{blobs: blobs}
	healthHandler := handlers.NewHealthHandler(kcChecker, blobChecker)

	// 10. API handler
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		directorySvc,
		filesSvc,
		issuesSvc,
		trackerSvc,
		requestsSvc,
		logger,
	)

	// 11. JWT middleware
	jwtAuth, err := middleware.NewJWTAuth(
		cfg.JWTJWKSURL,
		cfg.KeycloakCACertPath,
		cfg.JWTIssuer,
		cfg.RoleAdminGroups,
		cfg.JWKSClientTimeout,
		cfg.JWKSRefreshInterval,
		cfg.JWTLeeway,
		logger,
	)
	if err != nil {
		logger.Error("Ошибка создания JWT middleware", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer jwtAuth.Close()
	logger.Info("JWT middleware инициализирован",
		slog.String("jwks_url", cfg.JWTJWKSURL),
		slog.String("issuer", cfg.JWTIssuer),
	)

	// 12. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, jwtAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 13. Graceful shutdown фоновых задач
	logger.Info("Останавливаем фоновые задачи...")

	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}
	sweeper.Stop()

	logger.Info("Registry Module остановлен")
}

// --- Вспомогательные типы ---

// blobReadinessChecker — адаптер blobstore.BlobStore → handlers.ReadinessChecker.
type blobReadinessChecker struct {
	blobs blobstore.BlobStore
}

// CheckReady проверяет доступность blob-хранилища через Ping.
func (b *blobReadinessChecker) CheckReady() (status, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.blobs.Ping(ctx); err != nil {
		return "fail", "blob-хранилище недоступно: " + err.Error()
	}
	return "ok", "blob-хранилище доступно"
}
