package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"volunteerhub_backend/internals/constants"
	eventModel "volunteerhub_backend/internals/features/events/model"
	"volunteerhub_backend/internals/features/notifications/model"
	userModel "volunteerhub_backend/internals/features/users/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(10000)&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&userModel.OrganizationModel{},
		&userModel.ParticipationModel{},
		&eventModel.EventModel{},
		&eventModel.EventJoinModel{},
		&model.NotificationModel{},
		&model.NotificationUserModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string, active bool) *userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		FullName:     "Test User",
		Email:        uuid.NewString() + "@test.local",
		PasswordHash: "x",
		Role:         role,
		IsActive:     active,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &u
}

func seedEvent(t *testing.T, db *gorm.DB, orgID uuid.UUID, status string, start time.Time) *eventModel.EventModel {
	t.Helper()
	ev := eventModel.EventModel{
		EventTitle:          "Park Restoration",
		EventStartDate:      start,
		EventStatus:         status,
		EventIsApproved:     true,
		EventOrganizationID: orgID,
	}
	if err := db.Create(&ev).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return &ev
}

func registerUser(t *testing.T, db *gorm.DB, userID, eventID uuid.UUID) {
	t.Helper()
	join := eventModel.EventJoinModel{
		EventJoinUserID:  userID,
		EventJoinEventID: eventID,
	}
	if err := db.Create(&join).Error; err != nil {
		t.Fatalf("seed join: %v", err)
	}
}

func inboxCount(t *testing.T, db *gorm.DB, userID uuid.UUID) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.NotificationUserModel{}).
		Where("notification_user_user_id = ?", userID).Count(&n).Error; err != nil {
		t.Fatalf("count inbox: %v", err)
	}
	return n
}

func TestDispatch_FansOutToRecipients(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	u1 := seedUser(t, db, constants.RoleMember, true)
	u2 := seedUser(t, db, constants.RoleMember, true)

	result, err := svc.Dispatch(context.Background(), DispatchInput{
		Title:   "Hello",
		Content: "World",
		Type:    model.NotificationTypeSystem,
		UserIDs: []uuid.UUID{u1.ID, u2.ID},
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result.Recipients != 2 {
		t.Errorf("recipients = %d, want 2", result.Recipients)
	}
	if inboxCount(t, db, u1.ID) != 1 || inboxCount(t, db, u2.ID) != 1 {
		t.Error("each recipient should have exactly one inbox row")
	}
}

func TestDispatch_DedupsRecipients(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	u := seedUser(t, db, constants.RoleMember, true)

	result, err := svc.Dispatch(context.Background(), DispatchInput{
		Title:   "Once",
		Content: "Only once",
		Type:    model.NotificationTypeSystem,
		UserIDs: []uuid.UUID{u.ID, u.ID, uuid.Nil, u.ID},
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result.Recipients != 1 {
		t.Errorf("recipients = %d, want 1", result.Recipients)
	}
	if got := inboxCount(t, db, u.ID); got != 1 {
		t.Errorf("inbox rows = %d, want 1", got)
	}
}

func TestDispatch_EmptyAudienceIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	result, err := svc.Dispatch(context.Background(), DispatchInput{
		Title:   "Nobody",
		Content: "home",
		Type:    model.NotificationTypeSystem,
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result.Recipients != 0 {
		t.Errorf("recipients = %d, want 0", result.Recipients)
	}

	var n int64
	if err := db.Model(&model.NotificationModel{}).Count(&n).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	if n != 0 {
		t.Errorf("notification rows = %d, want 0 (no row without recipients)", n)
	}
}

func TestNotifyRegistration_MergesAdminAndOrgAudiences(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	_ = seedUser(t, db, constants.RoleAdmin, true)
	inactive := seedUser(t, db, constants.RoleAdmin, false)
	member := seedUser(t, db, constants.RoleMember, true)

	// adminOrgUser is both an active admin and an org member: exactly
	// one inbox row despite appearing in both audiences.
	adminOrgUser := seedUser(t, db, constants.RoleSuperAdmin, true)
	orgID := uuid.New()
	for _, uid := range []uuid.UUID{adminOrgUser.ID, member.ID} {
		part := userModel.ParticipationModel{
			ParticipationUserID:         uid,
			ParticipationOrganizationID: orgID,
		}
		if err := db.Create(&part).Error; err != nil {
			t.Fatalf("seed participation: %v", err)
		}
	}

	ev := seedEvent(t, db, orgID, eventModel.EventStatusUpcoming, time.Now().Add(24*time.Hour))
	result, err := svc.NotifyRegistration(context.Background(), ev)
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	// admin + adminOrgUser + member(org side); inactive admin excluded.
	if result.Recipients != 3 {
		t.Errorf("recipients = %d, want 3", result.Recipients)
	}
	if inboxCount(t, db, adminOrgUser.ID) != 1 {
		t.Error("dual-audience user must get exactly one row")
	}
	if inboxCount(t, db, inactive.ID) != 0 {
		t.Error("inactive admin must not be notified")
	}
}

func TestBroadcast_ActiveUsersOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	active := seedUser(t, db, constants.RoleMember, true)
	disabled := seedUser(t, db, constants.RoleMember, false)

	result, err := svc.Broadcast(context.Background(), "Maintenance", "Tonight 2am")
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if result.Recipients != 1 {
		t.Errorf("recipients = %d, want 1", result.Recipients)
	}
	if inboxCount(t, db, active.ID) != 1 || inboxCount(t, db, disabled.ID) != 0 {
		t.Error("broadcast must reach active users only")
	}
}

func TestCheckUpcomingEvents_RemindsOnceWithinWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	volunteer := seedUser(t, db, constants.RoleMember, true)

	soon := seedEvent(t, db, uuid.New(), eventModel.EventStatusUpcoming, time.Now().Add(30*time.Minute))
	far := seedEvent(t, db, uuid.New(), eventModel.EventStatusUpcoming, time.Now().Add(5*time.Hour))
	registerUser(t, db, volunteer.ID, soon.EventID)
	registerUser(t, db, volunteer.ID, far.EventID)

	if _, err := svc.CheckUpcomingEvents(context.Background(), time.Hour); err != nil {
		t.Fatalf("check: %v", err)
	}
	if got := inboxCount(t, db, volunteer.ID); got != 1 {
		t.Fatalf("inbox rows = %d, want 1 (only the event inside the window)", got)
	}

	// Second tick over the same window must not re-send.
	if _, err := svc.CheckUpcomingEvents(context.Background(), time.Hour); err != nil {
		t.Fatalf("second check: %v", err)
	}
	if got := inboxCount(t, db, volunteer.ID); got != 1 {
		t.Errorf("inbox rows after second tick = %d, want 1", got)
	}
}

func TestCheckOngoingEvents_NotifiesRegistrantsOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	volunteer := seedUser(t, db, constants.RoleMember, true)
	bystander := seedUser(t, db, constants.RoleMember, true)

	ev := seedEvent(t, db, uuid.New(), eventModel.EventStatusOngoing, time.Now().Add(-time.Hour))
	registerUser(t, db, volunteer.ID, ev.EventID)

	for i := 0; i < 2; i++ {
		if _, err := svc.CheckOngoingEvents(context.Background()); err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
	}
	if got := inboxCount(t, db, volunteer.ID); got != 1 {
		t.Errorf("registrant inbox rows = %d, want 1", got)
	}
	if got := inboxCount(t, db, bystander.ID); got != 0 {
		t.Errorf("bystander inbox rows = %d, want 0", got)
	}
}

func TestCheckUpcomingAndOngoing_UseSeparateDedupKeys(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	volunteer := seedUser(t, db, constants.RoleMember, true)

	// Starts inside the window; the upcoming reminder goes out first,
	// then the event starts and the started-notice must still go out.
	ev := seedEvent(t, db, uuid.New(), eventModel.EventStatusUpcoming, time.Now().Add(10*time.Minute))
	registerUser(t, db, volunteer.ID, ev.EventID)

	if _, err := svc.CheckUpcomingEvents(context.Background(), time.Hour); err != nil {
		t.Fatalf("upcoming check: %v", err)
	}
	if err := db.Model(&eventModel.EventModel{}).
		Where("event_id = ?", ev.EventID).
		UpdateColumns(map[string]any{
			"event_status":     eventModel.EventStatusOngoing,
			"event_start_date": time.Now().Add(-time.Minute),
		}).Error; err != nil {
		t.Fatalf("force ongoing: %v", err)
	}
	if _, err := svc.CheckOngoingEvents(context.Background()); err != nil {
		t.Fatalf("ongoing check: %v", err)
	}

	if got := inboxCount(t, db, volunteer.ID); got != 2 {
		t.Errorf("inbox rows = %d, want 2 (one per category)", got)
	}
}
