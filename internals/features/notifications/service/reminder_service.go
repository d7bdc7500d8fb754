package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	eventModel "volunteerhub_backend/internals/features/events/model"
	"volunteerhub_backend/internals/features/notifications/model"
)

// alreadySent reports whether a notification with the given category
// already exists for the event. The (event_id, category) pair is the
// dedup key for scheduler-driven reminders, so a tick can run twice
// over the same window without double-notifying anyone.
func (s *NotificationService) alreadySent(ctx context.Context, eventID uuid.UUID, category string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&model.NotificationModel{}).
		Where("notification_event_id = ? AND notification_category = ?", eventID, category).
		Count(&count).Error
	return count > 0, err
}

// NotifyEventVolunteers sends a custom message to everyone registered
// for the event. Used by the manual admin endpoint, so no dedup guard.
func (s *NotificationService) NotifyEventVolunteers(ctx context.Context, ev *eventModel.EventModel, title, content string) (*DispatchResult, error) {
	ids, err := s.EventRegistrantIDs(ctx, ev.EventID)
	if err != nil {
		return nil, err
	}
	eventID := ev.EventID
	return s.Dispatch(ctx, DispatchInput{
		Title:   title,
		Content: content,
		Type:    model.NotificationTypeEvent,
		EventID: &eventID,
		Tags:    []string{"event", "manual"},
		UserIDs: ids,
	})
}

// CheckUpcomingEvents reminds registrants of approved UPCOMING events
// that start within the lookahead window. Each event gets at most one
// reminder of this category, ever. A failure on one event is logged
// and does not stop the rest of the batch.
func (s *NotificationService) CheckUpcomingEvents(ctx context.Context, lookahead time.Duration) (int, error) {
	now := time.Now()
	var events []eventModel.EventModel
	err := s.DB.WithContext(ctx).
		Where("event_status IN ? AND event_is_approved = ? AND event_start_date > ? AND event_start_date <= ?",
			[]string{eventModel.EventStatusUpcoming, eventModel.EventStatusOngoing}, true, now, now.Add(lookahead)).
		Find(&events).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range events {
		ev := &events[i]
		if err := s.remindEvent(ctx, ev, model.NotificationCategoryUpcoming,
			fmt.Sprintf("Event starting soon: %s", ev.EventTitle),
			fmt.Sprintf("The event %q starts at %s. See you there!", ev.EventTitle, ev.EventStartDate.Format("15:04 02/01/2006"))); err != nil {
			log.Printf("[ERROR] upcoming reminder for event %s: %v", ev.EventID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

// CheckOngoingEvents tells registrants their event has started: ONGOING,
// approved, and now inside [startDate, endDate] (open-ended when no
// endDate is set).
func (s *NotificationService) CheckOngoingEvents(ctx context.Context) (int, error) {
	now := time.Now()
	var events []eventModel.EventModel
	err := s.DB.WithContext(ctx).
		Where("event_status = ? AND event_is_approved = ? AND event_start_date <= ? AND (event_end_date IS NULL OR event_end_date >= ?)",
			eventModel.EventStatusOngoing, true, now, now).
		Find(&events).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range events {
		ev := &events[i]
		if err := s.remindEvent(ctx, ev, model.NotificationCategoryOngoing,
			fmt.Sprintf("Event in progress: %s", ev.EventTitle),
			fmt.Sprintf("The event %q has started.", ev.EventTitle)); err != nil {
			log.Printf("[ERROR] ongoing notice for event %s: %v", ev.EventID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *NotificationService) remindEvent(ctx context.Context, ev *eventModel.EventModel, category, title, content string) error {
	dup, err := s.alreadySent(ctx, ev.EventID, category)
	if err != nil || dup {
		return err
	}
	ids, err := s.EventRegistrantIDs(ctx, ev.EventID)
	if err != nil {
		return err
	}
	eventID := ev.EventID
	_, err = s.Dispatch(ctx, DispatchInput{
		Title:    title,
		Content:  content,
		Type:     model.NotificationTypeEvent,
		Category: category,
		EventID:  &eventID,
		Tags:     []string{"event", "reminder"},
		UserIDs:  ids,
	})
	return err
}
