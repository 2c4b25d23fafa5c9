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

import "time"

// Ingestion outcomes. Exactly one of these lands in the audit log for
// every mailbox message examined.
const (
	StatusSuccess  = "success"
	StatusRejected = "rejected"
	StatusError    = "error"
)

const (
	ResponseConfirmation = "confirmation"
	ResponseRejection    = "rejection"
	ResponseNone         = "none"
)

// Notification kinds.
const (
	KindAdmin   = "admin"
	KindLike    = "like"
	KindComment = "comment"
)

// IngestionLogEntry is the append-only audit record for one processed
// mailbox message. Never mutated after insertion.
type IngestionLogEntry struct {
	ID           int64
	SenderEmail  string
	Subject      string
	ReceivedAt   time.Time
	ProcessedAt  time.Time
	Status       string
	PhotoCount   int
	ErrorMessage string
	ResponseSent bool
	ResponseType string
}

// MirrorSyncRecord is one forwarding attempt against the asset mirror.
// Keyed to content by filename; the content store is external, so there
// is no foreign key to join on.
type MirrorSyncRecord struct {
	ID            int64
	Filename      string
	FilePath      string
	SyncDate      time.Time
	Status        string
	RemoteAssetID string
	ErrorMessage  string
	RetryCount    int
}

// Recipient is a browser/device registered for notifications. The
// identifier is opaque and supplied by the web layer.
type Recipient struct {
	ID                   int64
	Identifier           string
	DisplayName          string
	NotificationsEnabled bool
	PushEnabled          bool
	PushSubscription     string
	DeviceInfo           string
	LastSeen             time.Time
	CreatedAt            time.Time
}

type Notification struct {
	ID                  int64
	RecipientIdentifier string
	Title               string
	Body                string
	Kind                string
	CreatedAt           time.Time
	ReadAt              time.Time
	IsRead              bool
	LinkedContentType   string
	LinkedContentID     int64
}

// Photo is a row in the gallery content store.
type Photo struct {
	ID               int64
	Filename         string
	OriginalFilename string
	UploaderName     string
	MediaType        string
	UploadDate       time.Time
}
