package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/serendibtrip/serendibtrip-api/store"
	"github.com/serendibtrip/serendibtrip-api/types"
)

var _ store.NotificationSettingsStore = (*pgNotificationSettingsStore)(nil)

type pgNotificationSettingsStore struct {
	db DBTX
}

func NewPgNotificationSettingsStore(db DBTX) store.NotificationSettingsStore {
	return &pgNotificationSettingsStore{db: db}
}

func (s *pgNotificationSettingsStore) GetNotificationSettings(ctx context.Context, userID string) (*types.NotificationSettings, error) {
	var n types.NotificationSettings
	err := s.db.QueryRow(ctx, `
		SELECT user_id, email_enabled, push_enabled, trip_reminders, deal_alerts, updated_at
		FROM notification_settings
		WHERE user_id = $1`, userID,
	).Scan(&n.UserID, &n.EmailEnabled, &n.PushEnabled, &n.TripReminders, &n.DealAlerts, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification settings: %w", err)
	}
	return &n, nil
}

func (s *pgNotificationSettingsStore) UpsertNotificationSettings(ctx context.Context, n *types.NotificationSettings) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO notification_settings (user_id, email_enabled, push_enabled, trip_reminders, deal_alerts)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			email_enabled = EXCLUDED.email_enabled,
			push_enabled = EXCLUDED.push_enabled,
			trip_reminders = EXCLUDED.trip_reminders,
			deal_alerts = EXCLUDED.deal_alerts,
			updated_at = NOW()
		RETURNING updated_at`,
		n.UserID, n.EmailEnabled, n.PushEnabled, n.TripReminders, n.DealAlerts,
	).Scan(&n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save notification settings: %w", err)
	}
	return nil
}
