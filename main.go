package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moviematch-bot/bot"
	"moviematch-bot/config"
	"moviematch-bot/database"
	"moviematch-bot/event"
	"moviematch-bot/event/listener"
	"moviematch-bot/kinopoisk"
	"moviematch-bot/router"
	"moviematch-bot/state"
	"moviematch-bot/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	log.SetPrefix("moviematch-bot: ")

	rest := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		StrictRouting:         true,
		AppName:               "moviematch-bot",
	})

	rest.Use(cors.New())

	database.RedisConnect()
	database.PostgresConnect()

	event.RabbitMQConnect([]string{
		// Connect to queues
		"analytics",
		"broadcast",
	})

	st := store.New(database.Postgres)

	catalog := kinopoisk.NewClient(
		config.Config("KINOPOISK_API_URL"),
		config.Config("KINOPOISK_API_KEY"),
	)
	cache := kinopoisk.NewDetailCache(database.Redis[0], 24*time.Hour)

	gateway, err := bot.NewTelegramGateway(config.Config("TELEGRAM_BOT_TOKEN"))
	if err != nil {
		panic("failed to connect to Telegram")
	}

	dispatcher := bot.NewDispatcher(st, catalog, cache, state.NewRegistry(), gateway, func(action string, payload map[string]any) {
		data, _ := json.Marshal(payload)
		event.Emit("analytics", action, data, true)
	})

	// Run broadcast listener
	go listener.Broadcast(st, gateway)

	// Subscribe listener channel to "broadcast" events
	event.RabbitMQSubscribe([]event.SubscribeListener{
		{
			Queue:   "broadcast",
			Channel: listener.BroadcastChannel,
		},
	})

	// Replay event logs if requested
	event.Init()

	ctx, cancel := context.WithCancel(context.Background())
	go bot.NewPoller(gateway, dispatcher).Run(ctx)

	router.Rest(rest)

	go rest.Listen(fmt.Sprintf(":%s", config.Config("SERVER_PORT")))

	exit := make(chan struct{})
	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				close(exit)
				return
			}
		}
	}()

	<-exit
	cancel()
	event.RabbitMQChannel.Close()
	event.RabbitMQConnection.Close()
	event.InLogFile.Close()
	event.OutLogFile.Close()
	os.Exit(0)
}
