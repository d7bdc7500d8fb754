package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/features/events/model"
)

func seedTimedEvent(t *testing.T, db *gorm.DB, status string, start time.Time, end *time.Time) *model.EventModel {
	t.Helper()
	ev := model.EventModel{
		EventTitle:          "Timed Event",
		EventStartDate:      start,
		EventEndDate:        end,
		EventStatus:         status,
		EventIsApproved:     true,
		EventOrganizationID: uuid.New(),
	}
	if err := db.Create(&ev).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return &ev
}

func reloadStatus(t *testing.T, db *gorm.DB, eventID uuid.UUID) string {
	t.Helper()
	var ev model.EventModel
	if err := db.Where("event_id = ?", eventID).First(&ev).Error; err != nil {
		t.Fatalf("reload event: %v", err)
	}
	return ev.EventStatus
}

func TestAdvanceStatuses_StartsDueEvents(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)
	now := time.Now()

	due := seedTimedEvent(t, db, model.EventStatusUpcoming, now.Add(-time.Hour), nil)
	notYet := seedTimedEvent(t, db, model.EventStatusUpcoming, now.Add(time.Hour), nil)

	started, finished, err := svc.AdvanceStatuses(context.Background(), now)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if started != 1 || finished != 0 {
		t.Errorf("started=%d finished=%d, want 1/0", started, finished)
	}
	if got := reloadStatus(t, db, due.EventID); got != model.EventStatusOngoing {
		t.Errorf("due event status = %s, want ONGOING", got)
	}
	if got := reloadStatus(t, db, notYet.EventID); got != model.EventStatusUpcoming {
		t.Errorf("future event status = %s, want UPCOMING", got)
	}
}

func TestAdvanceStatuses_FinishesEndedEvents(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)
	now := time.Now()

	ended := now.Add(-time.Hour)
	running := now.Add(time.Hour)
	done := seedTimedEvent(t, db, model.EventStatusOngoing, now.Add(-3*time.Hour), &ended)
	live := seedTimedEvent(t, db, model.EventStatusOngoing, now.Add(-3*time.Hour), &running)

	_, finished, err := svc.AdvanceStatuses(context.Background(), now)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if finished != 1 {
		t.Errorf("finished = %d, want 1", finished)
	}
	if got := reloadStatus(t, db, done.EventID); got != model.EventStatusFinished {
		t.Errorf("ended event status = %s, want FINISHED", got)
	}
	if got := reloadStatus(t, db, live.EventID); got != model.EventStatusOngoing {
		t.Errorf("running event status = %s, want ONGOING", got)
	}
}

func TestAdvanceStatuses_NoEndDateStaysOngoing(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)
	now := time.Now()

	openEnded := seedTimedEvent(t, db, model.EventStatusOngoing, now.Add(-48*time.Hour), nil)

	_, finished, err := svc.AdvanceStatuses(context.Background(), now)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if finished != 0 {
		t.Errorf("finished = %d, want 0", finished)
	}
	if got := reloadStatus(t, db, openEnded.EventID); got != model.EventStatusOngoing {
		t.Errorf("open-ended event status = %s, want ONGOING", got)
	}
}

func TestAdvanceStatuses_CanceledIsTerminal(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)
	now := time.Now()

	ended := now.Add(-time.Hour)
	canceled := seedTimedEvent(t, db, model.EventStatusCanceled, now.Add(-3*time.Hour), &ended)

	started, finished, err := svc.AdvanceStatuses(context.Background(), now)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if started != 0 || finished != 0 {
		t.Errorf("started=%d finished=%d, want 0/0", started, finished)
	}
	if got := reloadStatus(t, db, canceled.EventID); got != model.EventStatusCanceled {
		t.Errorf("status = %s, want CANCELED", got)
	}
}

func TestAdvanceStatuses_UpcomingPastEndFinishesInTwoTicks(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)
	now := time.Now()

	// Start and end both in the past: the first tick moves it to
	// ONGOING, the second closes it out.
	ended := now.Add(-time.Hour)
	ev := seedTimedEvent(t, db, model.EventStatusUpcoming, now.Add(-2*time.Hour), &ended)

	if _, _, err := svc.AdvanceStatuses(context.Background(), now); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	if got := reloadStatus(t, db, ev.EventID); got != model.EventStatusOngoing {
		t.Fatalf("after first tick status = %s, want ONGOING", got)
	}
	if _, _, err := svc.AdvanceStatuses(context.Background(), now); err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if got := reloadStatus(t, db, ev.EventID); got != model.EventStatusFinished {
		t.Errorf("after second tick status = %s, want FINISHED", got)
	}
}

func TestApprove(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)
	ev := seedEvent(t, db, 10, model.EventStatusUpcoming, false)

	approved, err := svc.Approve(context.Background(), ev.EventID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !approved.EventIsApproved {
		t.Error("returned event not marked approved")
	}
	if approved.EventStatus != model.EventStatusUpcoming {
		t.Errorf("status = %s, approval must not touch status", approved.EventStatus)
	}

	_, err = svc.Approve(context.Background(), ev.EventID)
	if !errors.Is(err, ErrAlreadyApproved) {
		t.Errorf("second approve err = %v, want ErrAlreadyApproved", err)
	}

	_, err = svc.Approve(context.Background(), uuid.New())
	if !errors.Is(err, ErrEventNotFound) {
		t.Errorf("missing event err = %v, want ErrEventNotFound", err)
	}
}

func TestCancel(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(db)
	ev := seedEvent(t, db, 10, model.EventStatusUpcoming, true)

	canceled, err := svc.Cancel(context.Background(), ev.EventID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if canceled.EventStatus != model.EventStatusCanceled {
		t.Errorf("status = %s, want CANCELED", canceled.EventStatus)
	}

	// Registration is closed for canceled events.
	reg := NewRegistrationService(db)
	err = reg.Register(context.Background(), uuid.New(), ev.EventID)
	if !errors.Is(err, ErrEventNotOpen) {
		t.Errorf("register err = %v, want ErrEventNotOpen", err)
	}
}
