package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/ashorokhov/boltun/internal/bot/tasks"
	"github.com/ashorokhov/boltun/internal/config"
)

// Scheduler manages background tasks using gocron.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	cfg       *config.SchedulerConfig
	taskMap   map[string]tasks.ScheduledTaskFunc
	mu        sync.Mutex
	running   bool
}

// NewScheduler creates a scheduler for the configured tasks.
func NewScheduler(logger *slog.Logger, cfg *config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc) (*Scheduler, error) {
	log := logger.With("component", "scheduler")

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    log,
		cfg:       cfg,
		taskMap:   taskMap,
	}, nil
}

// Start schedules all enabled tasks and begins ticking.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	scheduled := 0
	if s.cfg != nil {
		for name, taskCfg := range s.cfg.Tasks {
			if !taskCfg.Enabled || taskCfg.Cron == "" {
				s.logger.Info("Skipping disabled task", "task", name)
				continue
			}
			taskFunc, ok := s.taskMap[name]
			if !ok {
				s.logger.Warn("Configured task has no implementation", "task", name)
				continue
			}

			_, err := s.scheduler.NewJob(
				gocron.CronJob(taskCfg.Cron, false),
				gocron.NewTask(s.wrap(name, taskFunc)),
			)
			if err != nil {
				return fmt.Errorf("failed to schedule task %q: %w", name, err)
			}
			scheduled++
		}
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler started", "tasks", scheduled)
	return nil
}

// Stop shuts the scheduler down, waiting for running jobs.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down scheduler: %w", err)
	}
	return nil
}

func (s *Scheduler) wrap(name string, task tasks.ScheduledTaskFunc) func() {
	return func() {
		ctx := context.Background()
		start := time.Now()
		s.logger.Info("Running scheduled task", "task", name)

		if err := task(ctx); err != nil {
			s.logger.Error("Scheduled task failed", "task", name, "error", err, "duration", time.Since(start))
			return
		}
		s.logger.Info("Scheduled task completed", "task", name, "duration", time.Since(start))
	}
}
