package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/constants"
	eventModel "volunteerhub_backend/internals/features/events/model"
	"volunteerhub_backend/internals/features/notifications/model"
	userModel "volunteerhub_backend/internals/features/users/model"
	"volunteerhub_backend/internals/metrics"
)

const fanoutBatchSize = 500

// NotificationService creates a Notification plus one NotificationUser
// row per resolved recipient. Callers that trigger it as a side effect
// of a business operation must treat failures as log-and-swallow: a
// broken notification path never fails a registration or an approval.
type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// DispatchInput describes one notification to fan out. Recipients are
// deduplicated by user id before any row is written.
type DispatchInput struct {
	Title    string
	Content  string
	Type     string
	Category string
	EventID  *uuid.UUID
	Tags     []string
	Data     datatypes.JSON
	UserIDs  []uuid.UUID
}

// DispatchResult reports what was written. An empty audience is a
// successful no-op: no notification row, zero recipients.
type DispatchResult struct {
	NotificationID uuid.UUID `json:"notification_id"`
	Recipients     int       `json:"recipients"`
}

func (s *NotificationService) Dispatch(ctx context.Context, in DispatchInput) (*DispatchResult, error) {
	recipients := dedupUserIDs(in.UserIDs)
	if len(recipients) == 0 {
		return &DispatchResult{}, nil
	}

	notif := model.NotificationModel{
		NotificationTitle:    in.Title,
		NotificationContent:  in.Content,
		NotificationType:     in.Type,
		NotificationCategory: in.Category,
		NotificationEventID:  in.EventID,
		NotificationTags:     in.Tags,
		NotificationData:     in.Data,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&notif).Error; err != nil {
			return err
		}
		rows := make([]model.NotificationUserModel, 0, len(recipients))
		for _, uid := range recipients {
			rows = append(rows, model.NotificationUserModel{
				NotificationUserNotificationID: notif.NotificationID,
				NotificationUserUserID:         uid,
			})
		}
		return tx.CreateInBatches(&rows, fanoutBatchSize).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.NotificationsFanout.Add(float64(len(recipients)))
	return &DispatchResult{NotificationID: notif.NotificationID, Recipients: len(recipients)}, nil
}

func dedupUserIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

/* ===============================
   Audience selection
=================================*/

// EventRegistrantIDs: all users with a join row for the event.
func (s *NotificationService) EventRegistrantIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.DB.WithContext(ctx).Model(&eventModel.EventJoinModel{}).
		Where("event_join_event_id = ?", eventID).
		Pluck("event_join_user_id", &ids).Error
	return ids, err
}

// ActiveUserIDs: broadcast audience.
func (s *NotificationService) ActiveUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("is_active = ?", true).
		Pluck("id", &ids).Error
	return ids, err
}

// ActiveAdminIDs: ADMIN and SUPER_ADMIN, active only.
func (s *NotificationService) ActiveAdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("role IN ? AND is_active = ?", constants.AdminOnly, true).
		Pluck("id", &ids).Error
	return ids, err
}

// OrganizationMemberIDs: everyone linked to the org via participation.
func (s *NotificationService) OrganizationMemberIDs(ctx context.Context, orgID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.DB.WithContext(ctx).Model(&userModel.ParticipationModel{}).
		Where("participation_organization_id = ?", orgID).
		Pluck("participation_user_id", &ids).Error
	return ids, err
}

/* ===============================
   Business triggers
=================================*/

// NotifyApprovedEvent tells every active volunteer a new event was
// approved.
func (s *NotificationService) NotifyApprovedEvent(ctx context.Context, ev *eventModel.EventModel) (*DispatchResult, error) {
	ids, err := s.ActiveUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	eventID := ev.EventID
	return s.Dispatch(ctx, DispatchInput{
		Title:   fmt.Sprintf("New approved event: %s", ev.EventTitle),
		Content: fmt.Sprintf("The event %q has been approved. Join if you are interested!", ev.EventTitle),
		Type:    model.NotificationTypeEvent,
		EventID: &eventID,
		Tags:    []string{"event", "approved"},
		UserIDs: ids,
	})
}

// NotifyPendingEvent tells active admins an event awaits approval.
func (s *NotificationService) NotifyPendingEvent(ctx context.Context, ev *eventModel.EventModel) (*DispatchResult, error) {
	ids, err := s.ActiveAdminIDs(ctx)
	if err != nil {
		return nil, err
	}
	eventID := ev.EventID
	return s.Dispatch(ctx, DispatchInput{
		Title:   fmt.Sprintf("Event awaiting approval: %s", ev.EventTitle),
		Content: fmt.Sprintf("An organization created the event %q and is waiting for approval.", ev.EventTitle),
		Type:    model.NotificationTypeSystem,
		EventID: &eventID,
		Tags:    []string{"event", "pending"},
		UserIDs: ids,
	})
}

// NotifyRegistration tells active admins and the owning organization's
// members that someone registered. The two audiences are merged and
// deduplicated so nobody gets two rows for the same notification.
func (s *NotificationService) NotifyRegistration(ctx context.Context, ev *eventModel.EventModel) (*DispatchResult, error) {
	admins, err := s.ActiveAdminIDs(ctx)
	if err != nil {
		return nil, err
	}
	orgMembers, err := s.OrganizationMemberIDs(ctx, ev.EventOrganizationID)
	if err != nil {
		return nil, err
	}
	eventID := ev.EventID
	return s.Dispatch(ctx, DispatchInput{
		Title:   fmt.Sprintf("New registration: %s", ev.EventTitle),
		Content: fmt.Sprintf("A volunteer registered for the event %q.", ev.EventTitle),
		Type:    model.NotificationTypeEvent,
		EventID: &eventID,
		Tags:    []string{"event", "registration"},
		UserIDs: append(admins, orgMembers...),
	})
}

// NotifyRegistrationAsync is the fire-and-forget wrapper used from the
// registration path: it runs detached from the request, with its own
// deadline, and only logs on failure.
func (s *NotificationService) NotifyRegistrationAsync(ev *eventModel.EventModel) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := s.NotifyRegistration(ctx, ev); err != nil {
			log.Printf("[ERROR] registration notification for event %s: %v", ev.EventID, err)
		}
	}()
}

// Broadcast sends a system notification to every active user.
func (s *NotificationService) Broadcast(ctx context.Context, title, content string) (*DispatchResult, error) {
	ids, err := s.ActiveUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	return s.Dispatch(ctx, DispatchInput{
		Title:   title,
		Content: content,
		Type:    model.NotificationTypeSystem,
		Tags:    []string{"broadcast"},
		UserIDs: ids,
	})
}
