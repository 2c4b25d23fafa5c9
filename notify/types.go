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

package notify

import (
	"context"

	"github.com/photopump/photopump/store"
)

// DefaultUnreadLimit caps how many unread notifications a single fetch
// returns.
const DefaultUnreadLimit = 10

// PushSender delivers one web-push message to a stored subscription.
type PushSender interface {
	Send(ctx context.Context, subscriptionJSON string, payload []byte) error
}

// Service is the notification fan-out layer. Database rows are the source
// of truth; web push is a best-effort side channel on top of them.
type Service struct {
	store *store.Store
	push  PushSender // nil disables push entirely
}

func NewService(st *store.Store, push PushSender) *Service {
	return &Service{store: st, push: push}
}

// pushPayload is the JSON shape the service worker expects.
type pushPayload struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	Type        string `json:"type"`
	ContentType string `json:"content_type,omitempty"`
	ContentID   int64  `json:"content_id,omitempty"`
}
