package lifecycle

import "errors"

var (
	ErrEventNotFound    = errors.New("lifecycle event not found")
	ErrInvalidEventType = errors.New("invalid lifecycle event type")
)
