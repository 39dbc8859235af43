package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/leadhub/leadhub/internal/domain/notification"
	"github.com/leadhub/leadhub/internal/domain/vendor"
	"github.com/leadhub/leadhub/internal/infrastructure/template"
	"github.com/leadhub/leadhub/internal/shared/biztime"
	"github.com/leadhub/leadhub/internal/shared/logger"
	"github.com/leadhub/leadhub/internal/shared/services/markdown"
	"github.com/leadhub/leadhub/internal/shared/utils"
)

const expiryDateLayout = "Monday, 2 January 2006"

// NotificationGateway e-mails lifecycle notices to the vendor's contact address.
type NotificationGateway struct {
	sender    Sender
	vendors   vendor.Repository
	templates *template.NoticeTemplateLoader
	markdown  markdown.MarkdownService
	renewURL  string
	logger    logger.Interface
}

func NewNotificationGateway(
	sender Sender,
	vendors vendor.Repository,
	templates *template.NoticeTemplateLoader,
	markdownService markdown.MarkdownService,
	baseURL string,
	logger logger.Interface,
) *NotificationGateway {
	return &NotificationGateway{
		sender:    sender,
		vendors:   vendors,
		templates: templates,
		markdown:  markdownService,
		renewURL:  strings.TrimRight(baseURL, "/") + "/billing/subscriptions",
		logger:    logger,
	}
}

func (g *NotificationGateway) SendRenewalReminder(ctx context.Context, msg notification.ReminderMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	return g.deliver(ctx, notification.KindRenewalReminder, msg.VendorID, template.NoticeData{
		PlanName:   msg.PlanName,
		ExpiryDate: msg.ExpiryDate.In(biztime.Location()).Format(expiryDateLayout),
	})
}

func (g *NotificationGateway) SendExpirationWarning(ctx context.Context, msg notification.WarningMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	return g.deliver(ctx, notification.KindExpirationWarning, msg.VendorID, template.NoticeData{
		PlanName: msg.PlanName,
	})
}

func (g *NotificationGateway) deliver(ctx context.Context, kind notification.Kind, vendorID uint, data template.NoticeData) error {
	v, err := g.vendors.GetByID(ctx, vendorID)
	if err != nil {
		return fmt.Errorf("failed to resolve vendor contact: %w", err)
	}

	data.VendorName = v.DisplayName()
	data.RenewURL = g.renewURL

	notice, err := g.templates.Render(kind, data)
	if err != nil {
		return err
	}

	htmlBody, err := g.markdown.ToHTMLSanitized(notice.Markdown)
	if err != nil {
		return err
	}

	if err := g.sender.Send(ctx, v.Email(), notice.Subject, htmlBody, notice.Markdown); err != nil {
		return err
	}

	g.logger.Debugw("notice sent", "kind", kind, "vendor_id", vendorID, "to", utils.MaskEmail(v.Email()))
	return nil
}
