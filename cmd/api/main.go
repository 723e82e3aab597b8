package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/escolarhq/escolar-api/internal/config"
	"github.com/escolarhq/escolar-api/internal/database"
	"github.com/escolarhq/escolar-api/internal/handler"
	"github.com/escolarhq/escolar-api/internal/middleware"
	"github.com/escolarhq/escolar-api/internal/models"
	"github.com/escolarhq/escolar-api/internal/repository"
	"github.com/escolarhq/escolar-api/internal/router"
	"github.com/escolarhq/escolar-api/internal/service"
	cloud "github.com/escolarhq/escolar-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.StudentProfile{},
		&models.TeacherProfile{},
		&models.Program{},
		&models.Course{},
		&models.Offering{},
		&models.GradeRecord{},
		&models.MoodEntry{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	offeringRepo := repository.NewOfferingRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	moodRepo := repository.NewMoodRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, natsConn, cfg.NATSSubject, logger)
	accountService := service.NewAccountService(userRepo, studentRepo, teacherRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	catalogService := service.NewCatalogService(catalogRepo, logger)
	enrollmentService := service.NewEnrollmentService(studentRepo, catalogRepo, offeringRepo, enrollmentRepo, userRepo, notificationService, logger)
	gradingService := service.NewGradingService(offeringRepo, studentRepo, gradeRepo, validate, notificationService, logger)
	moodService := service.NewMoodService(moodRepo, redisClient, cfg.MoodCacheTTL, validate, logger)
	documentService := service.NewDocumentService(studentRepo, uploader, cfg.MaxUploadSizeMB, logger)
	offeringService := service.NewOfferingService(offeringRepo, catalogRepo, teacherRepo, validate, logger)

	accountHandler := handler.NewAccountHandler(accountService, validate, logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, validate, logger)
	gradingHandler := handler.NewGradingHandler(gradingService, validate, logger)
	moodHandler := handler.NewMoodHandler(moodService, logger)
	documentHandler := handler.NewDocumentHandler(documentService, logger)
	offeringHandler := handler.NewOfferingHandler(offeringService, validate, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.MaxUploadSizeMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		AccountHandler:      accountHandler,
		CatalogHandler:      catalogHandler,
		EnrollmentHandler:   enrollmentHandler,
		GradingHandler:      gradingHandler,
		MoodHandler:         moodHandler,
		DocumentHandler:     documentHandler,
		OfferingHandler:     offeringHandler,
		NotificationHandler: notificationHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
