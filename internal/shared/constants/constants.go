package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderXRequestID = "X-Request-ID"

	// Database table names
	TableSubscriptions    = "subscriptions"
	TableVendorLeadQuotas = "vendor_lead_quotas"
	TablePlans            = "plans"
	TableVendors          = "vendors"
	TableNotificationLogs = "notification_logs"

	// Scheduler job names
	JobRenewalReminders         = "subscription-renewal-reminders"
	JobSubscriptionExpiry       = "subscription-expiration"
	JobTagSubscriptionLifecycle = "subscription-lifecycle"

	// Cache keys
	CacheKeyExpirationSummary = "leadhub:subscriptions:expiration_summary"

	// Pub/sub channels
	ChannelSubscriptionExpired = "leadhub:subscriptions:expired"
)
