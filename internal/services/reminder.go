package services

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
)

// ReminderTaskSource is the slice of the task repository the sweep reads.
type ReminderTaskSource interface {
	ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.Task, error)
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Task, error)
}

// ReminderNotificationStore is the slice of the notification repository
// the sweep writes through.
type ReminderNotificationStore interface {
	Create(ctx context.Context, n *domain.Notification) error
	HasRecentReminder(ctx context.Context, taskID, userID, kind string, since time.Time) (bool, error)
}

// ReminderConfig controls sweep cadence and windows.
type ReminderConfig struct {
	Interval    time.Duration
	Horizon     time.Duration
	DedupWindow time.Duration
}

// ReminderEngine periodically scans tasks nearing or past their due date
// and writes at most one notification per (task, user, kind) per dedup
// window. Sweeps never overlap: a tick that fires while the previous
// sweep is still running is skipped.
type ReminderEngine struct {
	tasks         ReminderTaskSource
	notifications ReminderNotificationStore
	logger        *zap.Logger
	cron          *cron.Cron
	cfg           ReminderConfig
	running       atomic.Bool
	now           func() time.Time
}

func NewReminderEngine(
	tasks ReminderTaskSource,
	notifications ReminderNotificationStore,
	logger *zap.Logger,
	cfg ReminderConfig,
) *ReminderEngine {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Minute
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = 24 * time.Hour
	}
	if cfg.DedupWindow <= 0 {
		cfg.DedupWindow = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &ReminderEngine{
		tasks:         tasks,
		notifications: notifications,
		logger:        logger,
		cfg:           cfg,
		cron:          cron.New(cron.WithSeconds()),
		now:           time.Now,
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = e.cron.AddFunc(schedule, e.runScheduled)

	return e
}

// Start launches the cron scheduler.
func (e *ReminderEngine) Start() {
	if e == nil || e.cron == nil {
		return
	}
	e.cron.Start()
	e.logger.Info("reminder engine started", zap.Duration("interval", e.cfg.Interval))
}

// Stop gracefully stops the scheduler, waiting for a running sweep.
func (e *ReminderEngine) Stop(ctx context.Context) {
	if e == nil || e.cron == nil {
		return
	}
	stopCtx := e.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	e.logger.Info("reminder engine stopped")
}

// runScheduled guards Sweep against overlapping ticks and swallows
// sweep errors so a failure never takes the timer down.
func (e *ReminderEngine) runScheduled() {
	if !e.running.CompareAndSwap(false, true) {
		e.logger.Warn("previous reminder sweep still running, skipping tick")
		return
	}
	defer e.running.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Interval)
	defer cancel()

	if err := e.Sweep(ctx); err != nil {
		e.logger.Error("reminder sweep failed", zap.Error(err))
	}
}

// Sweep performs one scan. Upcoming and overdue reminders deduplicate
// independently on (task, user, kind) within the dedup window; partial
// writes from a failed sweep are not rolled back.
func (e *ReminderEngine) Sweep(ctx context.Context) error {
	now := e.now()
	horizon := now.Add(e.cfg.Horizon)
	since := now.Add(-e.cfg.DedupWindow)

	upcoming, err := e.tasks.ListDueBetween(ctx, now, horizon)
	if err != nil {
		return fmt.Errorf("list upcoming tasks: %w", err)
	}
	for i := range upcoming {
		task := &upcoming[i]
		if task.DueDate == nil {
			continue
		}
		message := upcomingMessage(task.Title, hoursUntil(*task.DueDate, now))
		if err := e.remind(ctx, task, domain.ReminderUpcoming, message, since); err != nil {
			return err
		}
	}

	overdue, err := e.tasks.ListOverdue(ctx, now)
	if err != nil {
		return fmt.Errorf("list overdue tasks: %w", err)
	}
	for i := range overdue {
		task := &overdue[i]
		if err := e.remind(ctx, task, domain.ReminderOverdue, overdueMessage(task.Title), since); err != nil {
			return err
		}
	}

	e.logger.Info("reminder sweep completed",
		zap.Int("upcoming_tasks", len(upcoming)),
		zap.Int("overdue_tasks", len(overdue)))
	return nil
}

// remind writes one reminder per visible user unless an equivalent one
// already exists within the window.
func (e *ReminderEngine) remind(ctx context.Context, task *domain.Task, kind, message string, since time.Time) error {
	for _, userID := range task.VisibleUserIDs() {
		exists, err := e.notifications.HasRecentReminder(ctx, task.ID, userID, kind, since)
		if err != nil {
			return fmt.Errorf("reminder dedup check: %w", err)
		}
		if exists {
			continue
		}
		n := &domain.Notification{
			Type:         domain.NotificationReminder,
			ReminderKind: kind,
			Message:      message,
			TaskID:       task.ID,
			UserID:       userID,
		}
		if err := e.notifications.Create(ctx, n); err != nil {
			return fmt.Errorf("create reminder: %w", err)
		}
	}
	return nil
}

// hoursUntil rounds to the nearest whole hour, so "due in 0 hours" is
// possible right at the boundary.
func hoursUntil(due, now time.Time) int {
	return int(math.Round(due.Sub(now).Hours()))
}

func upcomingMessage(title string, hours int) string {
	unit := "hours"
	if hours == 1 {
		unit = "hour"
	}
	return fmt.Sprintf("%q is due in %d %s", title, hours, unit)
}

func overdueMessage(title string) string {
	return fmt.Sprintf("%q is overdue!", title)
}
