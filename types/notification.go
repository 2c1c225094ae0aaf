package types

import "time"

// NotificationSettings are a user's delivery preferences. A user with no
// stored row gets DefaultNotificationSettings.
type NotificationSettings struct {
	UserID        string    `json:"userId"`
	EmailEnabled  bool      `json:"emailEnabled"`
	PushEnabled   bool      `json:"pushEnabled"`
	TripReminders bool      `json:"tripReminders"`
	DealAlerts    bool      `json:"dealAlerts"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NotificationSettingsUpdate patches settings; nil fields are unchanged.
type NotificationSettingsUpdate struct {
	EmailEnabled  *bool `json:"emailEnabled,omitempty"`
	PushEnabled   *bool `json:"pushEnabled,omitempty"`
	TripReminders *bool `json:"tripReminders,omitempty"`
	DealAlerts    *bool `json:"dealAlerts,omitempty"`
}

func DefaultNotificationSettings(userID string) NotificationSettings {
	return NotificationSettings{
		UserID:        userID,
		EmailEnabled:  true,
		PushEnabled:   true,
		TripReminders: true,
		DealAlerts:    false,
	}
}

// Apply merges the non-nil fields of u into s.
func (s NotificationSettings) Apply(u NotificationSettingsUpdate) NotificationSettings {
	if u.EmailEnabled != nil {
		s.EmailEnabled = *u.EmailEnabled
	}
	if u.PushEnabled != nil {
		s.PushEnabled = *u.PushEnabled
	}
	if u.TripReminders != nil {
		s.TripReminders = *u.TripReminders
	}
	if u.DealAlerts != nil {
		s.DealAlerts = *u.DealAlerts
	}
	return s
}
