// Command admin is an operator CLI for the chat backend: inspect a
// user's rooms, fix read state, and drive the alarm flow by hand.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"matchday/backend/internal/alarm"
	"matchday/backend/internal/config"
	"matchday/backend/internal/localization"
	"matchday/backend/internal/models"
	"matchday/backend/internal/storage"
)

func usage() {
	fmt.Println(`Usage: admin <command> [args]
  rooms <user_id>                     list the user's rooms
  mark-read <room_name> <user_id>     mark the room read for the user
  push <user_id> <title> <body>       enqueue a notification
  signup <posting_id> <host> <guest>  record a participation request
  answer <alarm_id> <true|false>      answer a participation request`)
	os.Exit(1)
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

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
	store := storage.NewService(db, rdb)

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "rooms":
		if len(os.Args) != 3 {
			usage()
		}
		userID := parseID(os.Args[2])
		rooms, err := store.FindRoomsForUser(userID)
		if err != nil {
			log.Error("list rooms", "error", err)
			os.Exit(1)
		}
		for _, name := range lo.Map(rooms, func(r models.ChatRoom, _ int) string { return r.RoomName }) {
			fmt.Println(name)
		}

	case "mark-read":
		if len(os.Args) != 4 {
			usage()
		}
		room, err := store.GetRoomByName(os.Args[2])
		if err != nil {
			log.Error("resolve room", "error", err)
			os.Exit(1)
		}
		if err := store.MarkMessagesRead(room.RoomID, parseID(os.Args[3])); err != nil {
			log.Error("mark read", "error", err)
			os.Exit(1)
		}
		fmt.Printf("room %s marked read for user %s\n", os.Args[2], os.Args[3])

	case "push":
		if len(os.Args) != 5 {
			usage()
		}
		err := store.EnqueuePush(models.PushRequest{
			UserID: parseID(os.Args[2]),
			Title:  os.Args[3],
			Body:   os.Args[4],
		})
		if err != nil {
			log.Error("enqueue push", "error", err)
			os.Exit(1)
		}
		fmt.Println("push enqueued")

	case "signup":
		if len(os.Args) != 5 {
			usage()
		}
		svc := alarmService(log, store, cfg)
		a, err := svc.SignUpMatch(parseID(os.Args[2]), parseID(os.Args[3]), parseID(os.Args[4]))
		if err != nil {
			log.Error("sign up match", "error", err)
			os.Exit(1)
		}
		fmt.Printf("alarm %d created\n", a.ID)

	case "answer":
		if len(os.Args) != 4 {
			usage()
		}
		apply, err := strconv.ParseBool(os.Args[3])
		if err != nil {
			usage()
		}
		svc := alarmService(log, store, cfg)
		if err := svc.AnswerAlarm(parseID(os.Args[2]), apply); err != nil {
			log.Error("answer alarm", "error", err)
			os.Exit(1)
		}
		fmt.Printf("alarm %s answered: %v\n", os.Args[2], apply)

	default:
		usage()
	}
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		fmt.Printf("invalid id %q\n", s)
		os.Exit(1)
	}
	return id
}

func alarmService(log *slog.Logger, store storage.Storage, cfg config.Config) *alarm.Service {
	loc, err := localization.NewLocalizer(cfg.LocalesDir)
	if err != nil {
		log.Error("load locales", "error", err)
		os.Exit(1)
	}
	return alarm.NewService(log, store, loc, cfg.DefaultLanguage)
}
