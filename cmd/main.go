package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"matchday/backend/internal/alarm"
	"matchday/backend/internal/api/handler"
	"matchday/backend/internal/chathub"
	"matchday/backend/internal/config"
	"matchday/backend/internal/localization"
	"matchday/backend/internal/models"
	"matchday/backend/internal/push"
	"matchday/backend/internal/review"
	"matchday/backend/internal/storage"
)

func setupDependencies(log *slog.Logger, cfg config.Config) (*gorm.DB, *redis.Client) {
	// TranslateError turns the Postgres unique-violation into
	// gorm.ErrDuplicatedKey, which room creation relies on.
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Error("connect postgres", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.ChatRoom{},
		&models.RoomMember{},
		&models.Message{},
		&models.Posting{},
		&models.MatchAlarm{},
		&models.Review{},
	)
	if err != nil {
		log.Error("run migrations", "error", err)
		os.Exit(1)
	}

	log.Info("postgres and redis ready, migrations complete")
	return db, rdb
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file loaded")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	db, rdb := setupDependencies(log, cfg)
	store := storage.NewService(db, rdb)

	loc, err := localization.NewLocalizer(cfg.LocalesDir)
	if err != nil {
		log.Error("load locales", "error", err)
		os.Exit(1)
	}

	hub := chathub.NewManager(log)
	controller := chathub.NewSessionController(log, hub, store)
	alarmSvc := alarm.NewService(log, store, loc, cfg.DefaultLanguage)
	reviewSvc := review.NewService(log, store)

	senders := []push.Sender{push.NewExpoSender(log, cfg.ExpoPushURL)}
	if cfg.TelegramBotToken != "" {
		tg, err := push.NewTelegramSender(log, cfg.TelegramBotToken)
		if err != nil {
			log.Error("init telegram sender", "error", err)
			os.Exit(1)
		}
		senders = append(senders, tg)
	}
	dispatcher := alarm.NewDispatcher(log, store, senders)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go hub.Run(ctx)
	go hub.Listen(ctx, store.SubscribeRooms())
	go dispatcher.Run(ctx)

	r := gin.Default()
	h := handler.NewHandler(log, hub, controller, store, alarmSvc, reviewSvc, cfg)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"connect": "OK"})
	})
	r.GET("/token", h.IssueToken)
	r.GET("/ws", h.ServeWebSocket)
	r.POST("/push-token", h.RegisterPushToken)
	r.POST("/alarms", h.SignUpMatch)
	r.GET("/alarms", h.ListAlarms)
	r.GET("/alarms/pending", h.PendingAlarms)
	r.POST("/alarms/:id/answer", h.AnswerAlarm)
	r.GET("/rooms/:name/signed-up", h.RoomSignedUp)
	r.POST("/reviews", h.SubmitReviews)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
}
