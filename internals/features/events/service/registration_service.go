package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/features/events/model"
	"volunteerhub_backend/internals/metrics"
)

// RegistrationService owns the (user, event) join ledger. The two
// shared mutable resources, the participant counter and the join
// uniqueness constraint, are only ever touched inside a transaction
// here, so capacity holds under concurrent requests.
type RegistrationService struct {
	DB *gorm.DB
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{DB: db}
}

// Register inserts the join row and bumps the participant counter as
// one atomic unit. The counter update re-checks capacity in its WHERE
// clause, so of two racers on the last slot exactly one commits; the
// loser's join insert is rolled back with the transaction.
func (s *RegistrationService) Register(ctx context.Context, userID, eventID uuid.UUID) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev model.EventModel
		if err := tx.Where("event_id = ?", eventID).First(&ev).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		if !ev.IsOpenForRegistration() {
			return ErrEventNotOpen
		}

		join := model.EventJoinModel{
			EventJoinUserID:  userID,
			EventJoinEventID: eventID,
		}
		if err := tx.Create(&join).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrAlreadyRegistered
			}
			return err
		}

		res := tx.Model(&model.EventModel{}).
			Where("event_id = ? AND (event_max_volunteers = 0 OR event_current_participants < event_max_volunteers)", eventID).
			UpdateColumn("event_current_participants", gorm.Expr("event_current_participants + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEventFull
		}
		return nil
	})

	switch {
	case err == nil:
		metrics.RegistrationsTotal.Inc()
	case errors.Is(err, ErrEventFull):
		metrics.RegistrationsRejected.WithLabelValues("full").Inc()
	case errors.Is(err, ErrAlreadyRegistered):
		metrics.RegistrationsRejected.WithLabelValues("duplicate").Inc()
	case errors.Is(err, ErrEventNotOpen):
		metrics.RegistrationsRejected.WithLabelValues("not_open").Inc()
	}
	return err
}

// Unregister removes the join row and decrements the counter, floored
// at zero, as one atomic unit.
func (s *RegistrationService) Unregister(ctx context.Context, userID, eventID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("event_join_user_id = ? AND event_join_event_id = ?", userID, eventID).
			Delete(&model.EventJoinModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrJoinNotFound
		}

		return tx.Model(&model.EventModel{}).
			Where("event_id = ? AND event_current_participants > 0", eventID).
			UpdateColumn("event_current_participants", gorm.Expr("event_current_participants - 1")).Error
	})
}

// IsRegistered reports whether a join row exists for the pair.
func (s *RegistrationService) IsRegistered(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&model.EventJoinModel{}).
		Where("event_join_user_id = ? AND event_join_event_id = ?", userID, eventID).
		Count(&count).Error
	return count > 0, err
}

// RegisteredEventIDs returns which of the given events the user has
// joined, for the isRegistered flag on listings.
func (s *RegistrationService) RegisteredEventIDs(ctx context.Context, userID uuid.UUID, eventIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(eventIDs))
	if userID == uuid.Nil || len(eventIDs) == 0 {
		return out, nil
	}
	var ids []uuid.UUID
	if err := s.DB.WithContext(ctx).Model(&model.EventJoinModel{}).
		Where("event_join_user_id = ? AND event_join_event_id IN ?", userID, eventIDs).
		Pluck("event_join_event_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
