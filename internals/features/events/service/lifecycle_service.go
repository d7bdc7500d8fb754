package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/features/events/model"
)

// LifecycleService moves events through UPCOMING → ONGOING → FINISHED
// on wall-clock time and handles the explicit approve/cancel actions.
// Time-driven transitions run only from the scheduler, never from the
// registration path.
type LifecycleService struct {
	DB *gorm.DB
}

func NewLifecycleService(db *gorm.DB) *LifecycleService {
	return &LifecycleService{DB: db}
}

// Approve flips the approval gate. Status is untouched: approval is
// orthogonal to the time-driven state machine.
func (s *LifecycleService) Approve(ctx context.Context, eventID uuid.UUID) (*model.EventModel, error) {
	var ev model.EventModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).First(&ev).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		if ev.EventIsApproved {
			return ErrAlreadyApproved
		}
		ev.EventIsApproved = true
		return tx.Model(&model.EventModel{}).
			Where("event_id = ?", eventID).
			UpdateColumn("event_is_approved", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// Cancel puts an event into the terminal CANCELED state.
func (s *LifecycleService) Cancel(ctx context.Context, eventID uuid.UUID) (*model.EventModel, error) {
	var ev model.EventModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).First(&ev).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		ev.EventStatus = model.EventStatusCanceled
		return tx.Model(&model.EventModel{}).
			Where("event_id = ?", eventID).
			UpdateColumn("event_status", model.EventStatusCanceled).Error
	})
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// AdvanceStatuses recomputes time-driven statuses in two bulk updates.
// CANCELED rows never match either WHERE clause, and events without an
// end date stay ONGOING until someone cancels or finishes them
// explicitly.
func (s *LifecycleService) AdvanceStatuses(ctx context.Context, now time.Time) (started, finished int64, err error) {
	res := s.DB.WithContext(ctx).Model(&model.EventModel{}).
		Where("event_status = ? AND event_start_date <= ?", model.EventStatusUpcoming, now).
		UpdateColumn("event_status", model.EventStatusOngoing)
	if res.Error != nil {
		return 0, 0, res.Error
	}
	started = res.RowsAffected

	res = s.DB.WithContext(ctx).Model(&model.EventModel{}).
		Where("event_status = ? AND event_end_date IS NOT NULL AND event_end_date < ?", model.EventStatusOngoing, now).
		UpdateColumn("event_status", model.EventStatusFinished)
	if res.Error != nil {
		return started, 0, res.Error
	}
	return started, res.RowsAffected, nil
}
