package compoff

import "errors"

var (
	ErrNotFound         = errors.New("compensatory off not found")
	ErrAlreadyProcessed = errors.New("compensatory off has already been approved or rejected")
	ErrNotOwner         = errors.New("only the requesting employee may modify this request")
	ErrDuplicateDate    = errors.New("a comp off request already exists for this worked date")
	ErrNotApproved      = errors.New("only approved comp off credits can be consumed")
	ErrAlreadyUsed      = errors.New("comp off credit has already been used")
	ErrExpired          = errors.New("comp off credit has expired")
	ErrNoAvailableCredit = errors.New("no available comp off credit to consume")
)
