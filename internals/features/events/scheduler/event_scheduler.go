package scheduler

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"volunteerhub_backend/internals/configs"
	eventService "volunteerhub_backend/internals/features/events/service"
	notifService "volunteerhub_backend/internals/features/notifications/service"
	"volunteerhub_backend/internals/metrics"
)

// StartEventScheduler runs the periodic event maintenance loop: advance
// time-driven statuses first, then send the reminders the new statuses
// call for. One tick fires immediately on boot so a restart does not
// delay overdue transitions by a full interval.
func StartEventScheduler(db *gorm.DB) {
	lifecycle := eventService.NewLifecycleService(db)
	notifier := notifService.NewNotificationService(db)
	interval := configs.SchedulerInterval()
	lookahead := configs.NotifyLookahead()

	go func() {
		log.Printf("[SCHEDULER] started (interval %s, lookahead %s)", interval, lookahead)
		runTick(lifecycle, notifier, lookahead)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			runTick(lifecycle, notifier, lookahead)
		}
	}()
}

// runTick never aborts early: each step is independent, and a failing
// step only costs this tick's portion of the work.
func runTick(lifecycle *eventService.LifecycleService, notifier *notifService.NotificationService, lookahead time.Duration) {
	metrics.SchedulerTicks.Inc()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	started, finished, err := lifecycle.AdvanceStatuses(ctx, time.Now())
	if err != nil {
		log.Printf("[SCHEDULER] advance statuses: %v", err)
	} else if started > 0 || finished > 0 {
		log.Printf("[SCHEDULER] advanced statuses: %d started, %d finished", started, finished)
	}

	if _, err := notifier.CheckUpcomingEvents(ctx, lookahead); err != nil {
		log.Printf("[SCHEDULER] upcoming reminders: %v", err)
	}
	if _, err := notifier.CheckOngoingEvents(ctx); err != nil {
		log.Printf("[SCHEDULER] ongoing notices: %v", err)
	}
}
