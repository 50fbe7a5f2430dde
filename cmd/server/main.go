// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/unonche/unonche/internal/auth"
	"github.com/unonche/unonche/internal/cache"
	"github.com/unonche/unonche/internal/database"
	"github.com/unonche/unonche/internal/game"
	"github.com/unonche/unonche/internal/handlers"
	"github.com/unonche/unonche/internal/middleware"
)

func main() {
	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	if err := auth.Init(); err != nil {
		logger.Fatalf("auth init: %v", err)
	}

	// Redis and Postgres are optional collaborators: without them the room
	// still runs, it just keeps no history.
	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("event journal disabled: %v", err)
	}
	if err := database.ConnectDB(context.Background()); err != nil {
		logger.Warnf("round recording disabled: %v", err)
	}

	rules := game.DefaultHouseRules()
	if os.Getenv("EXTENDED_RULES") == "true" {
		rules = game.ExtendedHouseRules()
	}

	rs := handlers.NewRoomServer(rules, logger)

	mux := http.NewServeMux()
	mux.Handle("/room/ws/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.RoomWSHandler(logger, rs),
	)))
	mux.Handle("/room/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.RoomWSHandler(logger, rs),
	)))
	mux.Handle("/rooms", middleware.LogMiddleware(logger)(http.HandlerFunc(
		rs.ListRoomsHandler,
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
