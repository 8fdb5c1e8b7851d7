package regularization

import "errors"

var (
	ErrNotFound         = errors.New("regularization request not found")
	ErrAlreadyProcessed = errors.New("regularization request has already been approved or rejected")
	ErrNotOwner         = errors.New("only the requesting employee may modify this request")
	ErrDuplicateDate    = errors.New("a regularization request already exists for this date")
)
