package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskhive/backend/api/handler"
	"github.com/taskhive/backend/internal/config"
	"github.com/taskhive/backend/internal/infrastructure/buffer"
	"github.com/taskhive/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskhive/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskhive/backend/internal/infrastructure/redis"
	"github.com/taskhive/backend/internal/middleware"
	"github.com/taskhive/backend/internal/router"
	"github.com/taskhive/backend/internal/services"
	"github.com/taskhive/backend/internal/services/lifecycle"
	"github.com/taskhive/backend/pkg/httpcontext"
	"github.com/taskhive/backend/pkg/logger"
	"github.com/taskhive/backend/repository/postgres"
	redisRepo "github.com/taskhive/backend/repository/redis"
	"github.com/taskhive/backend/usecase/authz"

	attachmentUC "github.com/taskhive/backend/usecase/attachment"
	authUC "github.com/taskhive/backend/usecase/auth"
	categoryUC "github.com/taskhive/backend/usecase/category"
	commentUC "github.com/taskhive/backend/usecase/comment"
	dashboardUC "github.com/taskhive/backend/usecase/dashboard"
	notificationUC "github.com/taskhive/backend/usecase/notification"
	profileUC "github.com/taskhive/backend/usecase/profile"
	projectUC "github.com/taskhive/backend/usecase/project"
	taskUC "github.com/taskhive/backend/usecase/task"
	userUC "github.com/taskhive/backend/usecase/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "buffer")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	attachmentRepo := postgres.NewAttachmentRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		taskRepo,
		notificationRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	bufferBridge := services.NewBufferBridge(bufferProcessor)

	reminderEngine := services.NewReminderEngine(taskRepo, notificationRepo, zapLogger, services.ReminderConfig{
		Interval:    cfg.Reminder.Interval,
		Horizon:     cfg.Reminder.Horizon,
		DedupWindow: cfg.Reminder.DedupWindow,
	})
	reminderEngine.Start()
	manager.Register("reminder_engine", func(ctx context.Context) error {
		reminderEngine.Stop(ctx)
		return nil
	})

	policy := authz.NewPolicy()

	authUseCase := authUC.New(userRepo, sessionRepo, zapLogger, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TokenTTL, cfg.JWT.SessionTTL)
	profileUseCase := profileUC.New(userRepo)
	userUseCase := userUC.New(userRepo)
	taskUseCase := taskUC.New(taskRepo, notificationRepo, activityRepo, policy, bufferBridge, zapLogger)
	categoryUseCase := categoryUC.New(categoryRepo, policy)
	projectUseCase := projectUC.New(projectRepo, policy)
	commentUseCase := commentUC.New(commentRepo, taskRepo, notificationRepo, activityRepo, policy, bufferBridge, zapLogger)
	attachmentUseCase := attachmentUC.New(attachmentRepo, taskRepo, activityRepo, policy, zapLogger, cfg.Upload.Dir, cfg.Upload.MaxSize)
	notificationUseCase := notificationUC.New(notificationRepo)
	dashboardUseCase := dashboardUC.New(dashboardRepo, categoryRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:         apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Profile:      apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		User:         apiHandler.NewUserHandler(userUseCase, ctxAdapter, zapLogger),
		Task:         apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Category:     apiHandler.NewCategoryHandler(categoryUseCase, ctxAdapter, zapLogger),
		Project:      apiHandler.NewProjectHandler(projectUseCase, ctxAdapter, zapLogger),
		Comment:      apiHandler.NewCommentHandler(commentUseCase, ctxAdapter, zapLogger),
		Attachment:   apiHandler.NewAttachmentHandler(attachmentUseCase, ctxAdapter, zapLogger),
		Notification: apiHandler.NewNotificationHandler(notificationUseCase, ctxAdapter, zapLogger),
		Dashboard:    apiHandler.NewDashboardHandler(dashboardUseCase, ctxAdapter, zapLogger),
		Health:       apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, cfg.Upload.Dir, authMiddleware)

	server := &fasthttp.Server{
		Handler:            r.Handler,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxRequestBodySize: cfg.HTTP.MaxBodySize,
		Name:               cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
