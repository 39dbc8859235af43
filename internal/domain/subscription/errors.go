package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrSubscriptionExpired     = errors.New("subscription expired")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidPeriod           = errors.New("end date must be after start date")
	ErrRenewalAlreadyNotified  = errors.New("renewal reminder already sent")
	ErrPlanNotFound            = errors.New("plan not found")
)

func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
