package types

import "time"

// FeatureName identifies a gated feature.
type FeatureName string

const (
	FeatureAIChat            FeatureName = "ai_chat"
	FeatureAIRecommendations FeatureName = "ai_recommendations"
	FeatureSaveTrip          FeatureName = "save_trip"
	FeatureShareItinerary    FeatureName = "share_itinerary"
	FeatureExportPDF         FeatureName = "export_pdf"
)

// Audience splits the decision table between guests and signed-in users.
type Audience string

const (
	AudienceGuest         Audience = "guest"
	AudienceAuthenticated Audience = "authenticated"
)

// QuotaScope is the key space a usage counter resets against.
type QuotaScope string

const (
	QuotaScopeDaily   QuotaScope = "daily"
	QuotaScopeSession QuotaScope = "session"
)

type AccessState string

const (
	AccessAllowedUnlimited     AccessState = "allowed_unlimited"
	AccessAllowedWithQuota     AccessState = "allowed_with_quota"
	AccessDeniedQuotaExhausted AccessState = "denied_quota_exhausted"
	AccessDeniedDisabled       AccessState = "denied_feature_disabled"
)

// Actor is whoever is calling: a signed-in user or a guest session.
type Actor struct {
	UserID    string
	SessionID string
}

// IsGuest reports whether the actor has no verified user identity.
func (a Actor) IsGuest() bool {
	return a.UserID == ""
}

func (a Actor) Audience() Audience {
	if a.IsGuest() {
		return AudienceGuest
	}
	return AudienceAuthenticated
}

// FeatureRule is one cell of the decision table. Limit 0 means unlimited.
type FeatureRule struct {
	Enabled bool       `json:"enabled" yaml:"enabled"`
	Limit   int        `json:"limit" yaml:"limit"`
	Scope   QuotaScope `json:"scope" yaml:"scope"`
}

// FeatureAccess is the gate's decision for one actor and feature.
type FeatureAccess struct {
	Feature     FeatureName `json:"feature"`
	Allowed     bool        `json:"allowed"`
	State       AccessState `json:"state"`
	Reason      string      `json:"reason,omitempty"`
	Remaining   *int        `json:"remaining,omitempty"`
	Limit       int         `json:"limit,omitempty"`
	Used        int         `json:"used,omitempty"`
	ShowUpgrade bool        `json:"showUpgrade,omitempty"`
}

// UsageCounter is the persisted state behind a quota. Date is the UTC
// calendar date for daily scopes and empty for session scopes.
type UsageCounter struct {
	Count int    `json:"count"`
	Date  string `json:"date,omitempty"`
}

type FeatureUsageResponse struct {
	Feature   FeatureName `json:"feature"`
	Used      int         `json:"used"`
	Remaining *int        `json:"remaining,omitempty"`
	ResetsAt  *time.Time  `json:"resetsAt,omitempty"`
}

type FeatureListResponse struct {
	Audience Audience        `json:"audience"`
	Features []FeatureAccess `json:"features"`
}
