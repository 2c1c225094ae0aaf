package featuregate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/serendibtrip/serendibtrip-api/config"
	apperrors "github.com/serendibtrip/serendibtrip-api/errors"
	"github.com/serendibtrip/serendibtrip-api/logger"
	"github.com/serendibtrip/serendibtrip-api/types"
)

// Release refunds a use taken by Acquire. It is safe to call more than once.
type Release func(ctx context.Context) error

func noopRelease(context.Context) error { return nil }

// Gate decides whether an actor may use a feature and meters the uses.
type Gate struct {
	limits  *config.FeatureLimits
	store   CounterStore
	clock   Clock
	bypass  bool
	metrics *Metrics
}

type Option func(*Gate)

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(g *Gate) { g.clock = c }
}

// WithBypass disables every limit. Development and testing only.
func WithBypass(bypass bool) Option {
	return func(g *Gate) { g.bypass = bypass }
}

func WithMetrics(m *Metrics) Option {
	return func(g *Gate) { g.metrics = m }
}

func NewGate(limits *config.FeatureLimits, store CounterStore, opts ...Option) *Gate {
	g := &Gate{
		limits: limits,
		store:  store,
		clock:  SystemClock(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.bypass {
		logger.GetLogger().Warn("Feature gate limits are bypassed")
	}
	return g
}

func (g *Gate) resolve(actor types.Actor, name types.FeatureName) (types.FeatureRule, CounterKey, error) {
	rule, ok := g.limits.Rule(name, actor.Audience())
	if !ok {
		return types.FeatureRule{}, CounterKey{}, apperrors.NotFound("Feature", name)
	}
	if actor.IsGuest() && actor.SessionID == "" {
		return types.FeatureRule{}, CounterKey{}, apperrors.ValidationFailed("Missing session", "guest requests must carry a session ID")
	}
	return rule, CounterKey{Actor: actor, Feature: name, Scope: rule.Scope}, nil
}

// CanUseFeature reports the actor's access without consuming a use.
func (g *Gate) CanUseFeature(ctx context.Context, actor types.Actor, name types.FeatureName) (types.FeatureAccess, error) {
	if g.bypass {
		return g.record(bypassed(name)), nil
	}
	rule, key, err := g.resolve(actor, name)
	if err != nil {
		return types.FeatureAccess{}, err
	}
	if !rule.Enabled {
		return g.record(disabled(name, actor)), nil
	}
	if rule.Limit == 0 {
		return g.record(unlimited(name)), nil
	}
	used, err := g.store.Get(ctx, key, g.clock.Now())
	if err != nil {
		return types.FeatureAccess{}, apperrors.Wrap(err, apperrors.ServerError, "Failed to read feature usage")
	}
	return g.record(quota(name, actor, rule, used)), nil
}

// RecordUsage counts one accepted use. Callers that check first with
// CanUseFeature call it exactly once per use.
func (g *Gate) RecordUsage(ctx context.Context, actor types.Actor, name types.FeatureName) error {
	if g.bypass {
		return nil
	}
	rule, key, err := g.resolve(actor, name)
	if err != nil {
		return err
	}
	if !rule.Enabled {
		return apperrors.FeatureNotAvailable(string(name), disabled(name, actor).Reason, actor.IsGuest())
	}
	if _, err := g.store.Increment(ctx, key, g.clock.Now()); err != nil {
		return apperrors.Wrap(err, apperrors.ServerError, "Failed to record feature usage")
	}
	return nil
}

// Acquire atomically checks and consumes one use. Denials come back as
// QuotaExceeded or FeatureNotAvailable errors alongside the decision; the
// returned Release gives the use back when the gated work fails.
func (g *Gate) Acquire(ctx context.Context, actor types.Actor, name types.FeatureName) (types.FeatureAccess, Release, error) {
	if g.bypass {
		return g.record(bypassed(name)), noopRelease, nil
	}
	rule, key, err := g.resolve(actor, name)
	if err != nil {
		return types.FeatureAccess{}, noopRelease, err
	}
	if !rule.Enabled {
		access := g.record(disabled(name, actor))
		return access, noopRelease, apperrors.FeatureNotAvailable(string(name), access.Reason, access.ShowUpgrade)
	}

	// The date is pinned at acquisition so a refund hits the same counter.
	now := g.clock.Now()
	if rule.Limit == 0 {
		if _, err := g.store.Increment(ctx, key, now); err != nil {
			return types.FeatureAccess{}, noopRelease, apperrors.Wrap(err, apperrors.ServerError, "Failed to record feature usage")
		}
		return g.record(unlimited(name)), g.release(key, now), nil
	}

	used, ok, err := g.store.Acquire(ctx, key, rule.Limit, now)
	if err != nil {
		return types.FeatureAccess{}, noopRelease, apperrors.Wrap(err, apperrors.ServerError, "Failed to record feature usage")
	}
	if !ok {
		access := g.record(quota(name, actor, rule, used))
		return access, noopRelease, apperrors.QuotaExceeded(string(name), access.Reason, access.ShowUpgrade)
	}
	// used already includes this request.
	access := quota(name, actor, rule, used-1)
	remaining := rule.Limit - used
	access.Remaining = &remaining
	access.Used = used
	return g.record(access), g.release(key, now), nil
}

func (g *Gate) release(key CounterKey, at time.Time) Release {
	var once sync.Once
	return func(ctx context.Context) error {
		var err error
		once.Do(func() {
			err = g.store.Decrement(ctx, key, at)
			if err != nil {
				logger.GetLogger().Warnw("Failed to refund feature usage", "feature", key.Feature, "error", err)
			}
		})
		return err
	}
}

// ListFeatures reports access for every configured feature.
func (g *Gate) ListFeatures(ctx context.Context, actor types.Actor) ([]types.FeatureAccess, error) {
	names := g.limits.Names()
	out := make([]types.FeatureAccess, 0, len(names))
	for _, name := range names {
		access, err := g.CanUseFeature(ctx, actor, name)
		if err != nil {
			return nil, err
		}
		out = append(out, access)
	}
	return out, nil
}

// Usage reports the current count for a feature and when it resets.
// Session counters have no reset time.
func (g *Gate) Usage(ctx context.Context, actor types.Actor, name types.FeatureName) (types.FeatureUsageResponse, error) {
	rule, key, err := g.resolve(actor, name)
	if err != nil {
		return types.FeatureUsageResponse{}, err
	}
	now := g.clock.Now()
	used, err := g.store.Get(ctx, key, now)
	if err != nil {
		return types.FeatureUsageResponse{}, apperrors.Wrap(err, apperrors.ServerError, "Failed to read feature usage")
	}
	resp := types.FeatureUsageResponse{Feature: name, Used: used}
	if rule.Enabled && rule.Limit > 0 {
		remaining := max(rule.Limit-used, 0)
		resp.Remaining = &remaining
	}
	if rule.Scope == types.QuotaScopeDaily {
		reset := NextReset(now)
		resp.ResetsAt = &reset
	}
	return resp, nil
}

func (g *Gate) record(access types.FeatureAccess) types.FeatureAccess {
	g.metrics.observe(string(access.Feature), string(access.State))
	return access
}

func bypassed(name types.FeatureName) types.FeatureAccess {
	return types.FeatureAccess{
		Feature: name,
		Allowed: true,
		State:   types.AccessAllowedUnlimited,
		Reason:  "Limits bypassed",
	}
}

func unlimited(name types.FeatureName) types.FeatureAccess {
	return types.FeatureAccess{Feature: name, Allowed: true, State: types.AccessAllowedUnlimited}
}

func disabled(name types.FeatureName, actor types.Actor) types.FeatureAccess {
	reason := fmt.Sprintf("%s is not available", displayName(name))
	if actor.IsGuest() {
		reason = fmt.Sprintf("Sign in to use %s", displayName(name))
	}
	return types.FeatureAccess{
		Feature:     name,
		Allowed:     false,
		State:       types.AccessDeniedDisabled,
		Reason:      reason,
		ShowUpgrade: actor.IsGuest(),
	}
}

func quota(name types.FeatureName, actor types.Actor, rule types.FeatureRule, used int) types.FeatureAccess {
	remaining := max(rule.Limit-used, 0)
	access := types.FeatureAccess{
		Feature:   name,
		Allowed:   remaining > 0,
		State:     types.AccessAllowedWithQuota,
		Remaining: &remaining,
		Limit:     rule.Limit,
		Used:      used,
	}
	if remaining > 0 {
		return access
	}
	access.State = types.AccessDeniedQuotaExhausted
	access.ShowUpgrade = actor.IsGuest()
	switch {
	case rule.Scope == types.QuotaScopeDaily:
		access.Reason = fmt.Sprintf("Daily limit of %d %s reached. Resets at midnight UTC.", rule.Limit, displayName(name))
	case actor.IsGuest():
		access.Reason = fmt.Sprintf("You've used all %d free %s. Sign in for more.", rule.Limit, displayName(name))
	default:
		access.Reason = fmt.Sprintf("Limit of %d %s reached for this session.", rule.Limit, displayName(name))
	}
	return access
}

func displayName(name types.FeatureName) string {
	switch name {
	case types.FeatureAIChat:
		return "AI chat messages"
	case types.FeatureAIRecommendations:
		return "AI recommendations"
	case types.FeatureSaveTrip:
		return "saved trips"
	case types.FeatureShareItinerary:
		return "itinerary shares"
	case types.FeatureExportPDF:
		return "PDF exports"
	default:
		return string(name)
	}
}
