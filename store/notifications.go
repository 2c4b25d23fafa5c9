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

// InsertNotification adds one notification row.
func (s *Store) InsertNotification(ctx context.Context, n *Notification) error {
	if n.Kind == "" {
		n.Kind = KindAdmin
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO notifications (recipient_identifier, title, body, kind, created_at, is_read, linked_content_type, linked_content_id)
VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		n.RecipientIdentifier, n.Title, n.Body, n.Kind, n.CreatedAt, n.LinkedContentType, n.LinkedContentID,
	)
	if err != nil {
		return errors.Wrap(err, "inserting notification")
	}

	n.ID, err = res.LastInsertId()
	return errors.Wrap(err, "reading notification id")
}

// BroadcastNotification inserts one admin notification per enabled
// recipient in a single transaction and returns the number inserted. Zero
// enabled recipients is not an error.
func (s *Store) BroadcastNotification(ctx context.Context, title, body string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "beginning broadcast transaction")
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT identifier FROM notification_recipients WHERE notifications_enabled = 1`)
	if err != nil {
		return 0, errors.Wrap(err, "querying broadcast recipients")
	}

	var identifiers []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, errors.Wrap(err, "scanning broadcast recipient")
		}
		identifiers = append(identifiers, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, errors.Wrap(err, "iterating broadcast recipients")
	}
	rows.Close()

	now := s.now()
	for _, identifier := range identifiers {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO notifications (recipient_identifier, title, body, kind, created_at, is_read)
VALUES (?, ?, ?, ?, ?, 0)`,
			identifier, title, body, KindAdmin, now,
		); err != nil {
			return 0, errors.Wrapf(err, "inserting broadcast for %q", identifier)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing broadcast")
	}

	return len(identifiers), nil
}

// MarkNotificationRead flips is_read for one notification, scoped to the
// owning identifier. A row owned by someone else is unreachable by
// construction. Returns false when nothing matched.
func (s *Store) MarkNotificationRead(ctx context.Context, identifier string, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE notifications SET is_read = 1, read_at = ?
WHERE id = ? AND recipient_identifier = ? AND is_read = 0`,
		s.now(), id, identifier,
	)
	if err != nil {
		return false, errors.Wrap(err, "marking notification read")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "reading affected rows")
	}

	return n > 0, nil
}

// MarkAllNotificationsRead flips every unread notification owned by the
// identifier and returns how many were flipped.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, identifier string) (int, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE notifications SET is_read = 1, read_at = ?
WHERE recipient_identifier = ? AND is_read = 0`,
		s.now(), identifier,
	)
	if err != nil {
		return 0, errors.Wrap(err, "marking all notifications read")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "reading affected rows")
	}

	return int(n), nil
}

// DeleteNotification removes one notification, scoped to the owning
// identifier. Returns false when nothing matched.
func (s *Store) DeleteNotification(ctx context.Context, identifier string, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE id = ? AND recipient_identifier = ?`,
		id, identifier,
	)
	if err != nil {
		return false, errors.Wrap(err, "deleting notification")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "reading affected rows")
	}

	return n > 0, nil
}

// ListUnreadNotifications returns the newest unread notifications for an
// identifier, capped at limit.
func (s *Store) ListUnreadNotifications(ctx context.Context, identifier string, limit int) ([]Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, recipient_identifier, title, body, kind, created_at, read_at, is_read, linked_content_type, linked_content_id
FROM notifications
WHERE recipient_identifier = ? AND is_read = 0
ORDER BY created_at DESC, id DESC LIMIT ?`, identifier, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying unread notifications")
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		var readAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.RecipientIdentifier, &n.Title, &n.Body, &n.Kind,
			&n.CreatedAt, &readAt, &n.IsRead, &n.LinkedContentType, &n.LinkedContentID); err != nil {
			return nil, errors.Wrap(err, "scanning notification")
		}
		if readAt.Valid {
			n.ReadAt = readAt.Time
		}
		notifications = append(notifications, n)
	}

	return notifications, errors.Wrap(rows.Err(), "iterating notifications")
}
