package dto

import (
	"time"

	"github.com/leadhub/leadhub/internal/domain/notification"
	"github.com/leadhub/leadhub/internal/domain/subscription"
)

// ExpirationSummaryDTO is the operational read model of upcoming and past
// expirations.
type ExpirationSummaryDTO struct {
	ExpiringIn7Days  int64     `json:"expiring_in_7_days"`
	ExpiringIn30Days int64     `json:"expiring_in_30_days"`
	AlreadyExpired   int64     `json:"already_expired"`
	GeneratedAt      time.Time `json:"generated_at"`
}

func ToExpirationSummaryDTO(s *subscription.ExpirationSummary) *ExpirationSummaryDTO {
	if s == nil {
		return &ExpirationSummaryDTO{}
	}
	return &ExpirationSummaryDTO{
		ExpiringIn7Days:  s.ExpiringIn7Days,
		ExpiringIn30Days: s.ExpiringIn30Days,
		AlreadyExpired:   s.AlreadyExpired,
		GeneratedAt:      s.GeneratedAt,
	}
}

// DeliveryRecordDTO is one notification attempt in a subscription's audit trail.
type DeliveryRecordDTO struct {
	ID        uint      `json:"id"`
	Kind      string    `json:"kind"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	Payload   any       `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToDeliveryRecordDTOs(records []*notification.DeliveryRecord) []*DeliveryRecordDTO {
	out := make([]*DeliveryRecordDTO, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		out = append(out, &DeliveryRecordDTO{
			ID:        r.ID,
			Kind:      string(r.Kind),
			Success:   r.Success,
			Error:     r.Error,
			Payload:   r.Payload,
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}
