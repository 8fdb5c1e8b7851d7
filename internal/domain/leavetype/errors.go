package leavetype

import "errors"

var (
	ErrLeaveTypeNotFound = errors.New("leave type not found")
	ErrCodeExists        = errors.New("leave type code already exists")
)
