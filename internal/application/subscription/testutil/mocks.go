// Package testutil provides in-memory implementations for testing the
// subscription lifecycle passes.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/leadhub/leadhub/internal/domain/notification"
	"github.com/leadhub/leadhub/internal/domain/quota"
	"github.com/leadhub/leadhub/internal/domain/subscription"
	vo "github.com/leadhub/leadhub/internal/domain/subscription/valueobjects"
)

// ErrInjected is returned by mocks configured to fail.
var ErrInjected = errors.New("injected failure")

type subscriptionRow struct {
	id                   uint
	vendorID             uint
	planID               uint
	status               vo.SubscriptionStatus
	startDate            time.Time
	endDate              time.Time
	renewalNotified      bool
	reminderClaimedUntil *time.Time
	expiredAt            *time.Time
	updatedAt            time.Time
}

func (r subscriptionRow) clone() *subscriptionRow {
	c := r
	if r.reminderClaimedUntil != nil {
		t := *r.reminderClaimedUntil
		c.reminderClaimedUntil = &t
	}
	if r.expiredAt != nil {
		t := *r.expiredAt
		c.expiredAt = &t
	}
	return &c
}

func (r *subscriptionRow) toEntity() *subscription.Subscription {
	sub, err := subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:                   r.id,
		VendorID:             r.vendorID,
		PlanID:               r.planID,
		Status:               r.status,
		StartDate:            r.startDate,
		EndDate:              r.endDate,
		RenewalNotified:      r.renewalNotified,
		ReminderClaimedUntil: r.reminderClaimedUntil,
		ExpiredAt:            r.expiredAt,
		UpdatedAt:            r.updatedAt,
	})
	if err != nil {
		panic(err)
	}
	return sub
}

// Store is an in-memory datastore holding subscriptions, plans and vendor
// quotas. It implements subscription.SubscriptionRepository,
// subscription.PlanRepository, quota.Repository and db.TxRunner with the same
// conditional-update semantics as the SQL repositories.
type Store struct {
	mu     sync.Mutex
	txMu   sync.Mutex
	subs   map[uint]*subscriptionRow
	quotas map[uint]quota.Counters
	plans  map[uint]string
	nextID uint

	// Error injection for testing
	findError       error
	claimError      error
	markError       error
	transitionError error
	successorError  error
	countError      error
	planError       error
	resetErrors     map[uint]error
	txDelay         time.Duration

	claimCalls int
	resetCalls map[uint]int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		subs:        make(map[uint]*subscriptionRow),
		quotas:      make(map[uint]quota.Counters),
		plans:       make(map[uint]string),
		resetErrors: make(map[uint]error),
		resetCalls:  make(map[uint]int),
	}
}

// AddPlan registers a plan name.
func (s *Store) AddPlan(id uint, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[id] = name
}

// AddSubscription inserts a subscription row and returns its id.
func (s *Store) AddSubscription(vendorID, planID uint, status vo.SubscriptionStatus, endDate time.Time, notified bool) uint {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.subs[s.nextID] = &subscriptionRow{
		id:              s.nextID,
		vendorID:        vendorID,
		planID:          planID,
		status:          status,
		startDate:       endDate.AddDate(0, -1, 0),
		endDate:         endDate,
		renewalNotified: notified,
	}
	return s.nextID
}

// SetQuota stores the counters for a vendor.
func (s *Store) SetQuota(vendorID uint, c quota.Counters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotas[vendorID] = c
}

// Quota returns the counters of a vendor and whether a row exists.
func (s *Store) Quota(vendorID uint) (quota.Counters, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.quotas[vendorID]
	return c, ok
}

// Subscription returns a snapshot of one row.
func (s *Store) Subscription(id uint) *subscription.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.subs[id]
	if !ok {
		return nil
	}
	return row.toEntity()
}

// SetClaimedUntil stamps a reminder lease directly, as another pass would.
func (s *Store) SetClaimedUntil(id uint, until time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[id].reminderClaimedUntil = &until
}

func (s *Store) SetFindError(err error)       { s.mu.Lock(); s.findError = err; s.mu.Unlock() }
func (s *Store) SetClaimError(err error)      { s.mu.Lock(); s.claimError = err; s.mu.Unlock() }
func (s *Store) SetMarkError(err error)       { s.mu.Lock(); s.markError = err; s.mu.Unlock() }
func (s *Store) SetTransitionError(err error) { s.mu.Lock(); s.transitionError = err; s.mu.Unlock() }
func (s *Store) SetSuccessorError(err error)  { s.mu.Lock(); s.successorError = err; s.mu.Unlock() }
func (s *Store) SetCountError(err error)      { s.mu.Lock(); s.countError = err; s.mu.Unlock() }
func (s *Store) SetPlanError(err error)       { s.mu.Lock(); s.planError = err; s.mu.Unlock() }

// SetTxDelay makes every committed transaction take at least d.
func (s *Store) SetTxDelay(d time.Duration) { s.mu.Lock(); s.txDelay = d; s.mu.Unlock() }

// SetResetError makes ResetForVendor fail for vendorID.
func (s *Store) SetResetError(vendorID uint, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.resetErrors, vendorID)
		return
	}
	s.resetErrors[vendorID] = err
}

// ClaimCalls reports how many reminder claims were attempted.
func (s *Store) ClaimCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claimCalls
}

// ResetCalls reports how many successful quota resets hit vendorID.
func (s *Store) ResetCalls(vendorID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetCalls[vendorID]
}

// RunInTransaction serializes transactions and rolls every change back when
// fn returns an error.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	subs := make(map[uint]*subscriptionRow, len(s.subs))
	for id, row := range s.subs {
		subs[id] = row.clone()
	}
	quotas := make(map[uint]quota.Counters, len(s.quotas))
	for id, c := range s.quotas {
		quotas[id] = c
	}
	resetCalls := make(map[uint]int, len(s.resetCalls))
	for id, n := range s.resetCalls {
		resetCalls[id] = n
	}
	delay := s.txDelay
	s.mu.Unlock()

	err := fn(ctx)
	if err == nil && delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		s.mu.Lock()
		s.subs = subs
		s.quotas = quotas
		s.resetCalls = resetCalls
		s.mu.Unlock()
		return err
	}
	return nil
}

// --- subscription.SubscriptionRepository ---

func (s *Store) Create(ctx context.Context, sub *subscription.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	if err := sub.SetID(s.nextID); err != nil {
		return err
	}
	s.subs[s.nextID] = &subscriptionRow{
		id:              s.nextID,
		vendorID:        sub.VendorID(),
		planID:          sub.PlanID(),
		status:          sub.Status(),
		startDate:       sub.StartDate(),
		endDate:         sub.EndDate(),
		renewalNotified: sub.RenewalNotified(),
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.subs[id]
	if !ok {
		return nil, subscription.ErrSubscriptionNotFound
	}
	return row.toEntity(), nil
}

func (s *Store) FindRenewalReminderCandidates(ctx context.Context, from, to time.Time) ([]*subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findError != nil {
		return nil, s.findError
	}
	return s.selectLocked(func(r *subscriptionRow) bool {
		return r.status == vo.StatusActive && !r.renewalNotified &&
			r.endDate.After(from) && r.endDate.Before(to)
	}), nil
}

func (s *Store) FindExpiredActive(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findError != nil {
		return nil, s.findError
	}
	return s.selectLocked(func(r *subscriptionRow) bool {
		return r.status == vo.StatusActive && r.endDate.Before(now)
	}), nil
}

func (s *Store) ClaimRenewalReminder(ctx context.Context, id uint, now, until time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.claimCalls++
	if s.claimError != nil {
		return false, s.claimError
	}
	row, ok := s.subs[id]
	if !ok || row.status != vo.StatusActive || row.renewalNotified {
		return false, nil
	}
	if row.reminderClaimedUntil != nil && !row.reminderClaimedUntil.Before(now) {
		return false, nil
	}
	row.reminderClaimedUntil = &until
	row.updatedAt = now
	return true, nil
}

func (s *Store) MarkRenewalNotified(ctx context.Context, id uint, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.markError != nil {
		return false, s.markError
	}
	row, ok := s.subs[id]
	if !ok || row.renewalNotified {
		return false, nil
	}
	row.renewalNotified = true
	row.reminderClaimedUntil = nil
	row.updatedAt = at
	return true, nil
}

func (s *Store) ReleaseRenewalReminderClaim(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row, ok := s.subs[id]; ok && !row.renewalNotified {
		row.reminderClaimedUntil = nil
	}
	return nil
}

func (s *Store) TransitionStatus(ctx context.Context, id uint, from, to vo.SubscriptionStatus, at time.Time) (bool, error) {
	if !from.CanTransitionTo(to) {
		return false, subscription.ErrInvalidTransition(from.String(), to.String())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.transitionError != nil {
		return false, s.transitionError
	}
	row, ok := s.subs[id]
	if !ok || row.status != from {
		return false, nil
	}
	row.status = to
	row.reminderClaimedUntil = nil
	row.updatedAt = at
	if to == vo.StatusExpired {
		expiredAt := at
		row.expiredAt = &expiredAt
	}
	return true, nil
}

func (s *Store) HasOtherActiveSubscription(ctx context.Context, vendorID, excludeID uint, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.successorError != nil {
		return false, s.successorError
	}
	for _, row := range s.subs {
		if row.vendorID == vendorID && row.id != excludeID &&
			row.status == vo.StatusActive && !row.endDate.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CountActiveEndingBetween(ctx context.Context, from, to time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.countError != nil {
		return 0, s.countError
	}
	var n int64
	for _, row := range s.subs {
		if row.status == vo.StatusActive && !row.endDate.Before(from) && !row.endDate.After(to) {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountByStatus(ctx context.Context, status vo.SubscriptionStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.countError != nil {
		return 0, s.countError
	}
	var n int64
	for _, row := range s.subs {
		if row.status == status {
			n++
		}
	}
	return n, nil
}

func (s *Store) selectLocked(match func(*subscriptionRow) bool) []*subscription.Subscription {
	var out []*subscription.Subscription
	for _, row := range s.subs {
		if match(row) {
			out = append(out, row.toEntity())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// --- subscription.PlanRepository ---

func (s *Store) GetNameByID(ctx context.Context, planID uint) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.planError != nil {
		return "", s.planError
	}
	name, ok := s.plans[planID]
	if !ok {
		return "", subscription.ErrPlanNotFound
	}
	return name, nil
}

// Plans exposes the store as a subscription.PlanRepository.
func (s *Store) Plans() subscription.PlanRepository { return s }

// Quotas exposes the store as a quota.Repository.
func (s *Store) Quotas() quota.Repository { return quotaView{s} }

// quotaView keeps quota.Repository's Create separate from the subscription one.
type quotaView struct{ s *Store }

func (v quotaView) Create(ctx context.Context, q *quota.VendorLeadQuota) error {
	v.s.SetQuota(q.VendorID(), q.Counters())
	return nil
}

func (v quotaView) GetByVendorID(ctx context.Context, vendorID uint) (*quota.VendorLeadQuota, error) {
	c, ok := v.s.Quota(vendorID)
	if !ok {
		return nil, quota.ErrQuotaNotFound
	}
	return quota.ReconstructVendorLeadQuota(vendorID, vendorID, c, time.Time{})
}

func (v quotaView) ResetForVendor(ctx context.Context, vendorID uint, at time.Time) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.resetErrors[vendorID]; err != nil {
		return err
	}
	c, ok := s.quotas[vendorID]
	if !ok {
		return nil
	}
	q, err := quota.ReconstructVendorLeadQuota(vendorID, vendorID, c, time.Time{})
	if err != nil {
		return err
	}
	q.Revoke(at)
	s.quotas[vendorID] = q.Counters()
	s.resetCalls[vendorID]++
	return nil
}

func (v quotaView) FindVendorsNeedingReset(ctx context.Context, now time.Time) ([]uint, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findError != nil {
		return nil, s.findError
	}

	var out []uint
	for vendorID, c := range s.quotas {
		if c == (quota.Counters{}) {
			continue
		}
		hasExpired, hasActive := false, false
		for _, row := range s.subs {
			if row.vendorID != vendorID {
				continue
			}
			if row.status == vo.StatusExpired {
				hasExpired = true
			}
			if row.status == vo.StatusActive && !row.endDate.Before(now) {
				hasActive = true
			}
		}
		if hasExpired && !hasActive {
			out = append(out, vendorID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// --- notification.Gateway ---

// MockGateway records every delivered message.
type MockGateway struct {
	mu           sync.Mutex
	reminders    []notification.ReminderMessage
	warnings     []notification.WarningMessage
	failVendors  map[uint]error
	failAll      error
	reminderHook func()
}

// NewMockGateway creates a gateway that accepts every message.
func NewMockGateway() *MockGateway {
	return &MockGateway{failVendors: make(map[uint]error)}
}

// FailFor makes deliveries to vendorID fail with err; nil clears it.
func (g *MockGateway) FailFor(vendorID uint, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		delete(g.failVendors, vendorID)
		return
	}
	g.failVendors[vendorID] = err
}

// FailAll makes every delivery fail with err; nil clears it.
func (g *MockGateway) FailAll(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failAll = err
}

// OnReminder runs hook before each reminder is accepted.
func (g *MockGateway) OnReminder(hook func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reminderHook = hook
}

func (g *MockGateway) SendRenewalReminder(ctx context.Context, msg notification.ReminderMessage) error {
	g.mu.Lock()
	hook := g.reminderHook
	g.mu.Unlock()
	if hook != nil {
		hook()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failureLocked(msg.VendorID); err != nil {
		return err
	}
	g.reminders = append(g.reminders, msg)
	return nil
}

func (g *MockGateway) SendExpirationWarning(ctx context.Context, msg notification.WarningMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failureLocked(msg.VendorID); err != nil {
		return err
	}
	g.warnings = append(g.warnings, msg)
	return nil
}

func (g *MockGateway) failureLocked(vendorID uint) error {
	if g.failAll != nil {
		return g.failAll
	}
	return g.failVendors[vendorID]
}

// Reminders returns the delivered reminders.
func (g *MockGateway) Reminders() []notification.ReminderMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]notification.ReminderMessage(nil), g.reminders...)
}

// Warnings returns the delivered warnings.
func (g *MockGateway) Warnings() []notification.WarningMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]notification.WarningMessage(nil), g.warnings...)
}

// RemindersFor counts reminders delivered for one subscription.
func (g *MockGateway) RemindersFor(subscriptionID uint) int {
	n := 0
	for _, m := range g.Reminders() {
		if m.SubscriptionID == subscriptionID {
			n++
		}
	}
	return n
}

// WarningsFor counts warnings delivered for one subscription.
func (g *MockGateway) WarningsFor(subscriptionID uint) int {
	n := 0
	for _, m := range g.Warnings() {
		if m.SubscriptionID == subscriptionID {
			n++
		}
	}
	return n
}

// --- notification.DeliveryLogRepository ---

// MockDeliveryLog keeps delivery records in memory.
type MockDeliveryLog struct {
	mu      sync.Mutex
	records []*notification.DeliveryRecord
	nextID  uint
}

func NewMockDeliveryLog() *MockDeliveryLog { return &MockDeliveryLog{} }

func (m *MockDeliveryLog) Record(ctx context.Context, record *notification.DeliveryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	record.ID = m.nextID
	m.records = append(m.records, record)
	return nil
}

func (m *MockDeliveryLog) ListBySubscription(ctx context.Context, subscriptionID uint) ([]*notification.DeliveryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*notification.DeliveryRecord
	for _, r := range m.records {
		if r.SubscriptionID == subscriptionID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Records returns every record.
func (m *MockDeliveryLog) Records() []*notification.DeliveryRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*notification.DeliveryRecord(nil), m.records...)
}

// --- subscription.EventPublisher ---

// MockEventPublisher collects published events.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []*subscription.SubscriptionExpiredEvent
	err    error
}

func NewMockEventPublisher() *MockEventPublisher { return &MockEventPublisher{} }

func (p *MockEventPublisher) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *MockEventPublisher) PublishExpired(ctx context.Context, event *subscription.SubscriptionExpiredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *MockEventPublisher) Events() []*subscription.SubscriptionExpiredEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*subscription.SubscriptionExpiredEvent(nil), p.events...)
}

// --- summary cache ---

// MockSummaryCache is an in-memory expiration summary cache without expiry.
type MockSummaryCache struct {
	mu            sync.Mutex
	summary       *subscription.ExpirationSummary
	getErr        error
	invalidations int
}

func NewMockSummaryCache() *MockSummaryCache { return &MockSummaryCache{} }

func (c *MockSummaryCache) SetGetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getErr = err
}

func (c *MockSummaryCache) Get(ctx context.Context) (*subscription.ExpirationSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.summary, nil
}

func (c *MockSummaryCache) Set(ctx context.Context, summary *subscription.ExpirationSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary = summary
	return nil
}

func (c *MockSummaryCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary = nil
	c.invalidations++
	return nil
}

func (c *MockSummaryCache) Invalidations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidations
}
