package quota

import (
	"context"
	"errors"
	"time"
)

var ErrQuotaNotFound = errors.New("vendor lead quota not found")

type Repository interface {
	Create(ctx context.Context, quota *VendorLeadQuota) error
	GetByVendorID(ctx context.Context, vendorID uint) (*VendorLeadQuota, error)

	// ResetForVendor sets all six counters of vendorID to zero. A vendor
	// without a quota row is not an error.
	ResetForVendor(ctx context.Context, vendorID uint, at time.Time) error

	// FindVendorsNeedingReset returns vendors that hold an expired
	// subscription, no active subscription ending after now, and a quota
	// with any non-zero counter.
	FindVendorsNeedingReset(ctx context.Context, now time.Time) ([]uint, error)
}
