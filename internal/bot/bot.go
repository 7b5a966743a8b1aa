// Package bot implements lifecycle management and component orchestration
// for the boltun Telegram bot.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"
)

// Bot supervises the Telegram listener and the task scheduler.
type Bot struct {
	logger    *slog.Logger
	tgBot     *tgbot.Bot
	scheduler *Scheduler
}

// New creates the bot supervisor.
func New(logger *slog.Logger, tgBot *tgbot.Bot, scheduler *Scheduler) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot"),
		tgBot:     tgBot,
		scheduler: scheduler,
	}
}

// Run starts the listener and the scheduler and blocks until the context
// is cancelled or a component fails.
func (b *Bot) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram listener...")
		b.tgBot.Start(gCtx)
		b.logger.Info("Telegram listener stopped.")

		if gCtx.Err() == nil {
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		if err := b.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")
		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot stopped gracefully.")
	return nil
}
