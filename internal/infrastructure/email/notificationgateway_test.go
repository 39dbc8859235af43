package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leadhub/leadhub/internal/domain/notification"
	"github.com/leadhub/leadhub/internal/domain/vendor"
	"github.com/leadhub/leadhub/internal/infrastructure/template"
	"github.com/leadhub/leadhub/internal/shared/logger"
	"github.com/leadhub/leadhub/internal/shared/services/markdown"
)

type mockVendorRepository struct {
	mock.Mock
}

func (m *mockVendorRepository) GetByID(ctx context.Context, id uint) (*vendor.Vendor, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*vendor.Vendor), args.Error(1)
	}
	return nil, args.Error(1)
}

type sentMail struct {
	to, subject, html, plain string
}

type recordingSender struct {
	sent []sentMail
	err  error
}

func (s *recordingSender) Send(_ context.Context, to, subject, htmlBody, plainBody string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to, subject, htmlBody, plainBody})
	return nil
}

func newTestGateway(t *testing.T, sender Sender, vendors vendor.Repository) *NotificationGateway {
	t.Helper()
	loader := template.NewNoticeTemplateLoader("", logger.NewNopLogger())
	require.NoError(t, loader.Load())
	return NewNotificationGateway(sender, vendors, loader, markdown.NewMarkdownService(),
		"https://app.leadhub.io/", logger.NewNopLogger())
}

func TestNotificationGateway_SendRenewalReminder(t *testing.T) {
	v, err := vendor.NewVendor(2, "Acme", "ops@acme.example")
	require.NoError(t, err)
	vendors := new(mockVendorRepository)
	vendors.On("GetByID", mock.Anything, uint(2)).Return(v, nil)
	sender := &recordingSender{}
	gw := newTestGateway(t, sender, vendors)

	err = gw.SendRenewalReminder(context.Background(), notification.ReminderMessage{
		SubscriptionID: 9,
		VendorID:       2,
		PlanName:       "Gold",
		ExpiryDate:     time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	mail := sender.sent[0]
	assert.Equal(t, "ops@acme.example", mail.to)
	assert.Contains(t, mail.subject, "Gold")
	assert.Contains(t, mail.subject, "16 March 2026")
	assert.Contains(t, mail.html, "<strong>Gold</strong>")
	assert.Contains(t, mail.html, "https://app.leadhub.io/billing/subscriptions")
	vendors.AssertExpectations(t)
}

func TestNotificationGateway_SendExpirationWarning_SenderFailure(t *testing.T) {
	v, err := vendor.NewVendor(2, "", "ops@acme.example")
	require.NoError(t, err)
	vendors := new(mockVendorRepository)
	vendors.On("GetByID", mock.Anything, uint(2)).Return(v, nil)
	gw := newTestGateway(t, &recordingSender{err: errors.New("relay down")}, vendors)

	err = gw.SendExpirationWarning(context.Background(), notification.WarningMessage{VendorID: 2, PlanName: "Gold"})
	assert.EqualError(t, err, "relay down")
}

func TestNotificationGateway_UnknownVendor(t *testing.T) {
	vendors := new(mockVendorRepository)
	vendors.On("GetByID", mock.Anything, uint(3)).Return(nil, vendor.ErrVendorNotFound)
	sender := &recordingSender{}
	gw := newTestGateway(t, sender, vendors)

	err := gw.SendExpirationWarning(context.Background(), notification.WarningMessage{VendorID: 3, PlanName: "Gold"})
	assert.ErrorIs(t, err, vendor.ErrVendorNotFound)
	assert.Empty(t, sender.sent)
}

func TestNotificationGateway_RejectsInvalidMessage(t *testing.T) {
	gw := newTestGateway(t, &recordingSender{}, new(mockVendorRepository))

	err := gw.SendRenewalReminder(context.Background(), notification.ReminderMessage{VendorID: 1})
	assert.ErrorIs(t, err, notification.ErrInvalidMessage)
}

func TestNewSender_WithoutHostFailsSends(t *testing.T) {
	s := NewSender(SMTPConfig{}, logger.NewNopLogger())
	err := s.Send(context.Background(), "a@b.example", "s", "", "")
	assert.ErrorIs(t, err, ErrEmailServiceNotConfigured)

	_, ok := NewSender(SMTPConfig{Host: "smtp.example", Port: 25}, logger.NewNopLogger()).(*SMTPEmailService)
	assert.True(t, ok)
}

func TestSMTPEmailService_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSMTPEmailService(SMTPConfig{Host: "smtp.example", Port: 25}).Send(ctx, "a@b.example", "s", "", "")
	assert.ErrorIs(t, err, context.Canceled)
}
