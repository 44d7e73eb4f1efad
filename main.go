package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"domik/config"
	"domik/cron"
	"domik/database"
	brepo "domik/database/repository/booking"
	rrepo "domik/database/repository/resource"
	"domik/handlers"
	"domik/routes"
	bookingsvc "domik/services/booking"
	"domik/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	if err := config.LoadTexts("language.json"); err != nil {
		logger.Fatal("Failed to load translations", zap.Error(err))
	}
	if err := os.MkdirAll(config.AppConfig.UploadBase, 0o755); err != nil {
		logger.Fatal("Failed to create upload folder", zap.Error(err))
	}

	database.InitDB()
	db := database.GetDB()
	resources := rrepo.NewGormResourceRepo(db)
	bookings := brepo.NewGormBookingRepo(db)

	sessions := bookingsvc.NewSessionStore()
	if err := sessions.LoadStateFile(config.AppConfig.StateFile); err != nil {
		logger.Warn("Failed to restore booking sessions", zap.Error(err))
	}
	flow := bookingsvc.NewDefaultBookingFlow(bookings, resources, sessions)

	bot, err := tele.NewBot(tele.Settings{
		Token:  config.AppConfig.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("Bot error", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to connect to Telegram", zap.Error(err))
	}
	botHandler := handlers.NewBotHandler(bot, flow, resources, bookings, logger)
	if err := routes.RegisterBotRoutes(bot, botHandler, logger); err != nil {
		logger.Fatal("Failed to register bot handlers", zap.Error(err))
	}

	scheduler, err := cron.StartSessionSweeper(sessions, logger)
	if err != nil {
		logger.Fatal("Failed to start session sweeper", zap.Error(err))
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	adminHandler := &handlers.AdminHandler{Resources: resources, Bookings: bookings, Logger: logger}
	routes.RegisterAdminRoutes(router, adminHandler)

	srv := &http.Server{Addr: ":" + config.AppConfig.AdminPort, Handler: router}
	go func() {
		logger.Info("Admin API listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Admin server failed", zap.Error(err))
		}
	}()

	go bot.Start()
	logger.Info("Bot started", zap.String("env", config.GetEnv()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	bot.Stop()
	if err := scheduler.Shutdown(); err != nil {
		logger.Warn("Failed to stop session sweeper", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("Admin server shutdown failed", zap.Error(err))
	}
	// Live sessions survive the restart through the state file.
	if err := sessions.SaveStateFile(config.AppConfig.StateFile); err != nil {
		logger.Error("Failed to persist booking sessions", zap.Error(err))
	}
	logger.Info("Server exiting")
}
