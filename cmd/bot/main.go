// Package main contains the entrypoint for the boltun Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/ashorokhov/boltun/internal/ai"
	"github.com/ashorokhov/boltun/internal/bot"
	"github.com/ashorokhov/boltun/internal/bot/handlers"
	"github.com/ashorokhov/boltun/internal/bot/tasks"
	"github.com/ashorokhov/boltun/internal/chat"
	"github.com/ashorokhov/boltun/internal/config"
	"github.com/ashorokhov/boltun/internal/database"
	"github.com/ashorokhov/boltun/internal/logger"
	"github.com/ashorokhov/boltun/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components, starts the bot, and handles graceful
// shutdown. It returns the process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to open database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	aiClient, err := ai.NewClient(ctx, cfg.AI, log)
	if err != nil {
		log.Error("Failed to initialize AI client", "error", err)
		return 1
	}

	maxLength := cfg.Chat.MaxMessageLength - cfg.Chat.LengthMargin
	formatInstruction := fmt.Sprintf("Reply in plain conversational text, at most %d characters.", maxLength)

	contexts := chat.NewContextStore(store, cfg.Chat.DefaultPersonality, formatInstruction, cfg.Chat.HistorySize, log)
	limiter := chat.NewRateLimiter(cfg.Chat.RateWindow, cfg.Chat.RateMaxRequests)

	groups := chat.NewGroupRegistry(store, log)
	if err := groups.Seed(ctx); err != nil {
		// Degraded start: all groups disabled until re-enabled.
		log.Warn("Failed to seed group registry from storage", "error", err)
	}

	msgs := cfg.Telegram.Messages
	notices := chat.Notices{
		EmptyInput:      msgs.EmptyMessage,
		ReplyUnreadable: msgs.ReplyUnreadable,
		RateLimited:     msgs.RateLimited,
		ModelError:      msgs.ModelError,
		ModelTimeout:    msgs.ModelTimeout,
	}
	orchestrator := chat.NewOrchestrator(contexts, limiter, aiClient, notices, cfg.AI.Timeout, maxLength, log)

	deps := &handlers.Deps{
		Logger:       log,
		Config:       cfg,
		Contexts:     contexts,
		Groups:       groups,
		Orchestrator: orchestrator,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewChatHandler(deps)),
	}
	tg, err := telegram.NewBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	deps.Sender = telegram.NewSender(tg, log)
	deps.IsChatAdmin = func(ctx context.Context, chatID, userID int64) bool {
		return telegram.IsChatAdmin(ctx, tg, log, chatID, userID)
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	deps.BotID = me.ID
	deps.BotUsername = me.Username
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	policy := chat.Policy{
		SpontaneousOdds:     cfg.Chat.SpontaneousOdds,
		CannedReplies:       cfg.Chat.CannedReplies,
		MentionPrefersReply: cfg.Chat.MentionPrefersReply,
	}
	deps.Resolver = chat.NewResolver(me.ID, me.Username, policy, groups, rand.IntN)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(deps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tasks.TaskDeps{Logger: log, Store: store}))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.New(log, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
