package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	eventModel "volunteerhub_backend/internals/features/events/model"
	"volunteerhub_backend/internals/features/notifications/dto"
	"volunteerhub_backend/internals/features/notifications/model"
	"volunteerhub_backend/internals/features/notifications/service"
	userModel "volunteerhub_backend/internals/features/users/model"
	helper "volunteerhub_backend/internals/helpers"
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
		&eventModel.EventModel{},
		&model.NotificationModel{},
		&model.NotificationUserModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newInboxApp mounts the inbox with a stub auth layer that injects the
// given identity into Locals.
func newInboxApp(db *gorm.DB, userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, userID.String())
		return c.Next()
	})
	ctl := NewNotificationController(db)
	app.Get("/api/notifications", ctl.GetMyNotifications)
	return app
}

func TestGetMyNotifications_IncludesTags(t *testing.T) {
	db := newTestDB(t)
	userID := uuid.New()
	svc := service.NewNotificationService(db)

	if _, err := svc.Dispatch(context.Background(), service.DispatchInput{
		Title:   "Tagged",
		Content: "With tags",
		Type:    model.NotificationTypeEvent,
		Tags:    []string{"event", "reminder"},
		UserIDs: []uuid.UUID{userID},
	}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	app := newInboxApp(db, userID)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/notifications", nil))
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
		Data []dto.NotificationResponse `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body %s: %v", raw, err)
	}
	if len(body.Data) != 1 {
		t.Fatalf("inbox rows = %d, want 1", len(body.Data))
	}
	row := body.Data[0]
	if row.Title != "Tagged" {
		t.Errorf("title = %q, want Tagged", row.Title)
	}
	if len(row.Tags) != 2 || row.Tags[0] != "event" || row.Tags[1] != "reminder" {
		t.Errorf("tags = %v, want [event reminder]", row.Tags)
	}
	if row.IsRead {
		t.Error("fresh notification must be unread")
	}
}
