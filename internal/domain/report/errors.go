package report

import "errors"

var (
	ErrInvalidDateRange = errors.New("invalid report date range")
)
