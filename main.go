// File: praxisagent/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"praxisagent/config"
	"praxisagent/cron"
	"praxisagent/database"
	appointmentRepo "praxisagent/database/repository/appointment"
	"praxisagent/handlers"
	"praxisagent/middleware"
	"praxisagent/routes"
	"praxisagent/services/availability"
	"praxisagent/services/booking"
	"praxisagent/services/calendar"
	"praxisagent/services/conversation"
	"praxisagent/services/intelligence"
	"praxisagent/services/notification"
	"praxisagent/services/tasks"
	"praxisagent/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	ctx := context.Background()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()

	// External collaborators.
	geminiClient, err := intelligence.NewGeminiClient(ctx, config.AppConfig.GeminiAPIKey)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize Gemini client: %v", err)
	}
	dateExtractor := intelligence.NewGeminiDateExtractor(geminiClient)

	calendarService, err := calendar.NewGoogleCalendarService(ctx,
		config.AppConfig.GoogleCredentialsFile, config.AppConfig.CalendarID)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize calendar service: %v", err)
	}

	smsService := notification.NewTwilioSMSService(
		config.AppConfig.TwilioAccountSID,
		config.AppConfig.TwilioAuthToken,
		config.AppConfig.TwilioNumber,
	)

	// Reminder queue.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()
	reminderScheduler, err := tasks.NewAsynqReminderScheduler(asynqClient)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize reminder scheduler: %v", err)
	}
	cron.InitReminderWorker(smsService)

	// Services.
	slotService, err := availability.NewDefaultSlotService(
		apptRepo,
		config.AppConfig.PracticeOpen,
		config.AppConfig.PracticeClose,
		config.AppConfig.SlotMinutes,
		2,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid practice hours: %v", err)
	}

	orchestrator := booking.NewDefaultOrchestrator(
		calendarService, smsService, apptRepo, reminderScheduler, logger)

	sessionStore := conversation.NewRedisSessionStore(
		utils.GetSessionCacheClient(),
		time.Duration(config.AppConfig.SessionTTLMinutes)*time.Minute,
	)

	engine := conversation.NewDefaultConversationEngine(
		sessionStore,
		dateExtractor,
		slotService,
		orchestrator,
		config.AppConfig.PhoneRegion,
		logger,
	)

	voiceHandler := handlers.NewVoiceHandler(engine, logger)
	dashboardHandler := handlers.NewDashboardHandler(apptRepo)

	// Register routes.
	routes.RegisterRoutes(router, voiceHandler, dashboardHandler)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetSessionCacheClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
