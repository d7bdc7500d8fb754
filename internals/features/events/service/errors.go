package service

import (
	"errors"
	"strings"
)

// Typed failures for the registration and lifecycle operations.
// Controllers map these onto HTTP statuses; anything else is a storage
// error and surfaces as 500.
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrEventNotOpen      = errors.New("event is not open for registration")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrEventFull         = errors.New("event is full")
	ErrJoinNotFound      = errors.New("not registered for this event")
	ErrAlreadyApproved   = errors.New("event is already approved")
)

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "23505")
}
