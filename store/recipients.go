/*
 * PhotoPump - Copyright (C) 2024 The PhotoPump Authors.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 2, and only
 * version 2 as published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 59 Temple Place, Suite 330, Boston, MA  02111-1307  USA
 */

package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// UpsertRecipient creates or refreshes a recipient keyed by its opaque
// identifier. Re-registration updates name, device info, the enabled flag
// and last_seen; recipients are never deleted here.
func (s *Store) UpsertRecipient(ctx context.Context, identifier, displayName, deviceInfo string, enabled bool) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO notification_recipients (identifier, display_name, device_info, notifications_enabled, last_seen, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(identifier) DO UPDATE SET
	display_name = excluded.display_name,
	device_info = excluded.device_info,
	notifications_enabled = excluded.notifications_enabled,
	last_seen = excluded.last_seen`,
		identifier, displayName, deviceInfo, enabled, now, now,
	)
	return errors.Wrap(err, "upserting recipient")
}

// SetRecipientEnabled toggles in-app notifications, registering the
// recipient on first contact.
func (s *Store) SetRecipientEnabled(ctx context.Context, identifier string, enabled bool) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO notification_recipients (identifier, notifications_enabled, last_seen, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(identifier) DO UPDATE SET
	notifications_enabled = excluded.notifications_enabled,
	last_seen = excluded.last_seen`,
		identifier, enabled, now, now,
	)
	return errors.Wrap(err, "toggling recipient")
}

// SetPushSubscription stores the browser's push subscription blob and the
// push opt-in flag.
func (s *Store) SetPushSubscription(ctx context.Context, identifier, subscription string, enabled bool) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO notification_recipients (identifier, push_subscription, push_enabled, last_seen, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(identifier) DO UPDATE SET
	push_subscription = excluded.push_subscription,
	push_enabled = excluded.push_enabled,
	last_seen = excluded.last_seen`,
		identifier, subscription, enabled, now, now,
	)
	return errors.Wrap(err, "storing push subscription")
}

// GetRecipient returns nil with no error when the identifier is unknown.
func (s *Store) GetRecipient(ctx context.Context, identifier string) (*Recipient, error) {
	var r Recipient
	err := s.db.QueryRowContext(ctx, `
SELECT id, identifier, display_name, notifications_enabled, push_enabled, push_subscription, device_info, last_seen, created_at
FROM notification_recipients WHERE identifier = ?`, identifier).Scan(
		&r.ID, &r.Identifier, &r.DisplayName, &r.NotificationsEnabled, &r.PushEnabled,
		&r.PushSubscription, &r.DeviceInfo, &r.LastSeen, &r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying recipient")
	}

	return &r, nil
}

// TouchRecipient bumps last_seen.
func (s *Store) TouchRecipient(ctx context.Context, identifier string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE notification_recipients SET last_seen = ? WHERE identifier = ?`,
		s.now(), identifier,
	)
	return errors.Wrap(err, "touching recipient")
}

// ListEnabledRecipients returns every recipient with in-app notifications
// on. Broadcasts fan out over this set.
func (s *Store) ListEnabledRecipients(ctx context.Context) ([]Recipient, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, identifier, display_name, notifications_enabled, push_enabled, push_subscription, device_info, last_seen, created_at
FROM notification_recipients WHERE notifications_enabled = 1 ORDER BY id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying enabled recipients")
	}
	defer rows.Close()

	var recipients []Recipient
	for rows.Next() {
		var r Recipient
		if err := rows.Scan(&r.ID, &r.Identifier, &r.DisplayName, &r.NotificationsEnabled, &r.PushEnabled,
			&r.PushSubscription, &r.DeviceInfo, &r.LastSeen, &r.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning recipient")
		}
		recipients = append(recipients, r)
	}

	return recipients, errors.Wrap(rows.Err(), "iterating recipients")
}
