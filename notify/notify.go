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

// Package notify manages per-recipient notifications. Every notification
// is a database row first; web push rides on top and its failures are
// logged, never surfaced.
package notify

import (
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"github.com/photopump/photopump/store"
)

// RegisterRecipient creates or refreshes a recipient registration.
func (s *Service) RegisterRecipient(ctx context.Context, identifier, displayName, deviceInfo string, enabled bool) error {
	return s.store.UpsertRecipient(ctx, identifier, displayName, deviceInfo, enabled)
}

// Notify stores one notification and pushes it if the recipient has a
// usable subscription. The database insert is the only operation that can
// fail the call.
func (s *Service) Notify(ctx context.Context, identifier, title, body, kind, contentType string, contentID int64) error {
	n := &store.Notification{
		RecipientIdentifier: identifier,
		Title:               title,
		Body:                body,
		Kind:                kind,
		LinkedContentType:   contentType,
		LinkedContentID:     contentID,
	}
	if err := s.store.InsertNotification(ctx, n); err != nil {
		return err
	}

	s.tryPush(ctx, identifier, n)
	return nil
}

// Broadcast stores one notification per enabled recipient and pushes to
// each of them. Returns how many notifications were stored.
func (s *Service) Broadcast(ctx context.Context, title, body string) (int, error) {
	count, err := s.store.BroadcastNotification(ctx, title, body)
	if err != nil {
		return 0, err
	}

	if s.push != nil && count > 0 {
		recipients, err := s.store.ListEnabledRecipients(ctx)
		if err != nil {
			log.WithError(err).Warn("notify_broadcast_push_list_failed")
			return count, nil
		}

		n := &store.Notification{Title: title, Body: body, Kind: store.KindAdmin}
		for _, r := range recipients {
			s.tryPush(ctx, r.Identifier, n)
		}
	}

	return count, nil
}

func (s *Service) tryPush(ctx context.Context, identifier string, n *store.Notification) {
	if s.push == nil {
		return
	}

	r, err := s.store.GetRecipient(ctx, identifier)
	if err != nil {
		log.WithError(err).WithField("recipient", identifier).Warn("notify_push_lookup_failed")
		return
	}
	if r == nil || !r.NotificationsEnabled || !r.PushEnabled || r.PushSubscription == "" {
		return
	}

	payload, err := json.Marshal(&pushPayload{
		Title:       n.Title,
		Message:     n.Body,
		Type:        n.Kind,
		ContentType: n.LinkedContentType,
		ContentID:   n.LinkedContentID,
	})
	if err != nil {
		log.WithError(err).Warn("notify_push_encode_failed")
		return
	}

	if err := s.push.Send(ctx, r.PushSubscription, payload); err != nil {
		log.WithError(err).WithField("recipient", identifier).Warn("notify_push_send_failed")
		return
	}

	if err := s.store.TouchRecipient(ctx, identifier); err != nil {
		log.WithError(err).WithField("recipient", identifier).Warn("notify_touch_failed")
	}
}

// MarkRead marks one of the recipient's own notifications read.
func (s *Service) MarkRead(ctx context.Context, identifier string, id int64) (bool, error) {
	return s.store.MarkNotificationRead(ctx, identifier, id)
}

// MarkAllRead marks everything unread for the recipient, returning the
// count.
func (s *Service) MarkAllRead(ctx context.Context, identifier string) (int, error) {
	return s.store.MarkAllNotificationsRead(ctx, identifier)
}

// Delete removes one of the recipient's own notifications.
func (s *Service) Delete(ctx context.Context, identifier string, id int64) (bool, error) {
	return s.store.DeleteNotification(ctx, identifier, id)
}

// ToggleEnabled flips in-app notifications for the recipient.
func (s *Service) ToggleEnabled(ctx context.Context, identifier string, enabled bool) error {
	return s.store.SetRecipientEnabled(ctx, identifier, enabled)
}

// SetPushSubscription stores the browser's push subscription.
func (s *Service) SetPushSubscription(ctx context.Context, identifier, subscription string, enabled bool) error {
	return s.store.SetPushSubscription(ctx, identifier, subscription, enabled)
}

// ListUnread returns the recipient's newest unread notifications. A
// non-positive limit falls back to DefaultUnreadLimit.
func (s *Service) ListUnread(ctx context.Context, identifier string, limit int) ([]store.Notification, error) {
	if limit <= 0 {
		limit = DefaultUnreadLimit
	}
	return s.store.ListUnreadNotifications(ctx, identifier, limit)
}
