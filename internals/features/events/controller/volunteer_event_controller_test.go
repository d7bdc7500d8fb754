package controller

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"volunteerhub_backend/internals/features/events/dto"
	"volunteerhub_backend/internals/features/events/model"
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
		&model.EventModel{},
		&model.EventJoinModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newListingApp(db *gorm.DB) *fiber.App {
	app := fiber.New()
	ctl := NewVolunteerEventController(db)
	app.Get("/api/volunteer/events", ctl.GetAvailableEvents)
	return app
}

func seedListedEvent(t *testing.T, db *gorm.DB, title string, maxVolunteers, current int, status string, approved bool) *model.EventModel {
	t.Helper()
	ev := model.EventModel{
		EventTitle:               title,
		EventStartDate:           time.Now().Add(24 * time.Hour),
		EventStatus:              status,
		EventIsApproved:          approved,
		EventMaxVolunteers:       maxVolunteers,
		EventCurrentParticipants: current,
		EventOrganizationID:      uuid.New(),
	}
	if err := db.Create(&ev).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return &ev
}

func fetchAvailable(t *testing.T, app *fiber.App) []dto.EventResponse {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/api/volunteer/events", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var body struct {
		Success bool                `json:"success"`
		Data    []dto.EventResponse `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body %s: %v", raw, err)
	}
	return body.Data
}

func TestGetAvailableEvents_ExcludesFullEvents(t *testing.T) {
	db := newTestDB(t)
	app := newListingApp(db)

	open := seedListedEvent(t, db, "Open", 5, 3, model.EventStatusUpcoming, true)
	unlimited := seedListedEvent(t, db, "Unlimited", 0, 1000, model.EventStatusUpcoming, true)
	seedListedEvent(t, db, "Full", 1, 1, model.EventStatusUpcoming, true)

	events := fetchAvailable(t, app)
	if len(events) != 2 {
		t.Fatalf("listed %d events, want 2 (full event must be excluded)", len(events))
	}
	listed := map[uuid.UUID]bool{}
	for _, ev := range events {
		listed[ev.EventID] = true
	}
	if !listed[open.EventID] || !listed[unlimited.EventID] {
		t.Errorf("listed = %v, want open and unlimited events", listed)
	}
}

func TestGetAvailableEvents_OnlyOpenApproved(t *testing.T) {
	db := newTestDB(t)
	app := newListingApp(db)

	visible := seedListedEvent(t, db, "Visible", 10, 0, model.EventStatusUpcoming, true)
	seedListedEvent(t, db, "Pending", 10, 0, model.EventStatusUpcoming, false)
	seedListedEvent(t, db, "Started", 10, 0, model.EventStatusOngoing, true)
	seedListedEvent(t, db, "Dropped", 10, 0, model.EventStatusCanceled, true)

	events := fetchAvailable(t, app)
	if len(events) != 1 {
		t.Fatalf("listed %d events, want 1", len(events))
	}
	if events[0].EventID != visible.EventID {
		t.Errorf("listed %s, want %s", events[0].EventID, visible.EventID)
	}
}
