package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

type scheduleKind int

const (
	everyMinutes scheduleKind = iota
	everyHours
	daily
	weekly
)

// schedule is the parsed subset of cron this scheduler understands:
// "*/n * * * *", "m */n * * *", "m h * * *" and "m h * * d"
type schedule struct {
	kind     scheduleKind
	interval int
	minute   int
	hour     int
	weekday  time.Weekday
}

// parseSchedule parses a 5-field cron expression.
// Examples: "0 9 * * 1" = Monday 9 AM, "0 8 * * *" = Daily 8 AM, "*/5 * * * *" = Every 5 minutes
func parseSchedule(cronExpr string) (schedule, error) {
	parts := strings.Fields(cronExpr)
	if len(parts) != 5 {
		return schedule{}, fmt.Errorf("invalid cron expression: %s (expected 5 fields)", cronExpr)
	}
	if parts[2] != "*" || parts[3] != "*" {
		return schedule{}, fmt.Errorf("invalid cron expression: %s (day and month must be *)", cronExpr)
	}

	if strings.HasPrefix(parts[0], "*/") {
		interval, err := strconv.Atoi(parts[0][2:])
		if err != nil || interval < 1 || interval > 59 {
			return schedule{}, fmt.Errorf("invalid minute interval in cron: %s", parts[0])
		}
		return schedule{kind: everyMinutes, interval: interval}, nil
	}

	minute, err := strconv.Atoi(parts[0])
	if err != nil || minute < 0 || minute > 59 {
		return schedule{}, fmt.Errorf("invalid minute in cron: %s", parts[0])
	}

	if strings.HasPrefix(parts[1], "*/") {
		interval, err := strconv.Atoi(parts[1][2:])
		if err != nil || interval < 1 || interval > 23 {
			return schedule{}, fmt.Errorf("invalid hour interval in cron: %s", parts[1])
		}
		return schedule{kind: everyHours, interval: interval, minute: minute}, nil
	}

	hour, err := strconv.Atoi(parts[1])
	if err != nil || hour < 0 || hour > 23 {
		return schedule{}, fmt.Errorf("invalid hour in cron: %s", parts[1])
	}

	if parts[4] == "*" {
		return schedule{kind: daily, hour: hour, minute: minute}, nil
	}

	weekday, err := strconv.Atoi(parts[4])
	if err != nil || weekday < 0 || weekday > 6 {
		return schedule{}, fmt.Errorf("invalid weekday in cron: %s (0-6, 0=Sunday)", parts[4])
	}
	return schedule{kind: weekly, hour: hour, minute: minute, weekday: time.Weekday(weekday)}, nil
}

// next returns the first run time strictly after from
func (s schedule) next(from time.Time) time.Time {
	switch s.kind {
	case everyMinutes:
		// Like cron, */n matches minutes divisible by n and restarts each hour
		next := from.Truncate(time.Minute).Add(time.Minute)
		for next.Minute()%s.interval != 0 {
			next = next.Add(time.Minute)
		}
		return next
	case everyHours:
		next := time.Date(from.Year(), from.Month(), from.Day(), from.Hour(), s.minute, 0, 0, from.Location())
		if !next.After(from) {
			next = next.Add(time.Hour)
		}
		for next.Hour()%s.interval != 0 {
			next = next.Add(time.Hour)
		}
		return next
	case weekly:
		next := time.Date(from.Year(), from.Month(), from.Day(), s.hour, s.minute, 0, 0, from.Location())
		daysUntil := int(s.weekday - from.Weekday())
		if daysUntil < 0 {
			daysUntil += 7
		}
		next = next.AddDate(0, 0, daysUntil)
		if !next.After(from) {
			next = next.AddDate(0, 0, 7)
		}
		return next
	default:
		next := time.Date(from.Year(), from.Month(), from.Day(), s.hour, s.minute, 0, 0, from.Location())
		if !next.After(from) {
			next = next.AddDate(0, 0, 1)
		}
		return next
	}
}

// Task is a unit of scheduled work
type Task func(ctx context.Context) error

// Scheduler runs tasks on cron-like schedules until stopped
type Scheduler struct {
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	now      func() time.Time
}

// New creates a scheduler
func New() *Scheduler {
	return &Scheduler{
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// Add starts running task on cronExpr in the background
func (s *Scheduler) Add(cronExpr, taskName string, task Task) error {
	sched, err := parseSchedule(cronExpr)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	go s.loop(sched, taskName, task)
	return nil
}

func (s *Scheduler) loop(sched schedule, taskName string, task Task) {
	defer s.wg.Done()

	for {
		now := s.now()
		next := sched.next(now)

		slog.Info("Next task scheduled", "task", taskName, "next_run", next.Format("2006-01-02 15:04:05"))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-timer.C:
			s.run(taskName, task)
		case <-s.stopChan:
			timer.Stop()
			return
		}
	}
}

func (s *Scheduler) run(taskName string, task Task) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-s.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Scheduled task panicked", "task", taskName, "panic", r)
		}
	}()

	start := time.Now()
	slog.Info("Running scheduled task", "task", taskName)
	if err := task(ctx); err != nil {
		slog.Error("Scheduled task failed", "task", taskName, "error", err)
		return
	}
	slog.Info("Scheduled task completed", "task", taskName, "duration_ms", time.Since(start).Milliseconds())
}

// Stop stops the scheduler and waits for running tasks to return
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		slog.Info("Stopping scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}
