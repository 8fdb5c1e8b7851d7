package leavetype

import (
	"time"
)

// AccrualFrequency controls how often leave balance accrues.
type AccrualFrequency string

const (
	AccrualMonthly   AccrualFrequency = "monthly"
	AccrualQuarterly AccrualFrequency = "quarterly"
	AccrualYearly    AccrualFrequency = "yearly"
)

// LeaveType is pure configuration; attendance logic only reads it.
type LeaveType struct {
	ID               string
	CompanyID        string
	Name             string
	Code             string
	AccrualRate      float64
	AccrualFrequency AccrualFrequency
	CarryForwardMax  float64
	EncashmentMax    float64
	RequiresProof    bool
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
