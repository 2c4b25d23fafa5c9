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

package ingest

import (
	"context"
	"time"

	"github.com/photopump/photopump/classify"
	"github.com/photopump/photopump/settings"
	"github.com/photopump/photopump/store"
)

// RejectionReason is the copy sent back for every rejected submission,
// whether it carried non-photo attachments or nothing at all.
const RejectionReason = "We received your email but it didn't contain any photo attachments."

// Session is one open mailbox session, held for the duration of a cycle.
type Session interface {
	ListUnseen() ([]uint32, error)
	Fetch(uid uint32) ([]byte, error)
	MarkSeen(uid uint32) error
	Close() error
}

// Connector dials a fresh Session from a cycle's email settings.
type Connector interface {
	Connect(email *settings.Email) (Session, error)
}

// ConnectorFunc adapts a plain function to Connector.
type ConnectorFunc func(email *settings.Email) (Session, error)

func (f ConnectorFunc) Connect(email *settings.Email) (Session, error) {
	return f(email)
}

// ContentStore is the gallery's insertion interface. AddPhotos must be
// atomic per call: the engine flags a message seen only after it returns.
type ContentStore interface {
	AddPhotos(ctx context.Context, photos []store.Photo) error
}

// AuditLog records ingestion outcomes and mirror forwarding attempts.
type AuditLog interface {
	AppendIngestionLog(ctx context.Context, e *store.IngestionLogEntry) error
	AppendMirrorSync(ctx context.Context, r *store.MirrorSyncRecord) error
}

// Responder sends the submitter-facing replies. Both calls are
// best-effort from the engine's point of view.
type Responder interface {
	SendConfirmation(to string, photoCount int) error
	SendRejection(to string, reason string) error
}

// Forwarder pushes one stored file to the asset mirror.
type Forwarder interface {
	Forward(ctx context.Context, filePath, filename, description string) (string, error)
}

// Config wires one Engine. NewResponder and NewForwarder are invoked once
// per cycle with that cycle's settings snapshot.
type Config struct {
	Connector    Connector
	Classifier   *classify.Classifier
	Photos       ContentStore
	Audit        AuditLog
	NewResponder func(email *settings.Email, galleryURL string) Responder
	NewForwarder func(cfg *settings.Mirror) Forwarder
	UploadDir    string
	Now          func() time.Time
}

// Engine is the per-message state machine. It owns no connection state;
// everything network-facing is rebuilt each cycle from the snapshot.
type Engine struct {
	connector    Connector
	classifier   *classify.Classifier
	photos       ContentStore
	audit        AuditLog
	newResponder func(email *settings.Email, galleryURL string) Responder
	newForwarder func(cfg *settings.Mirror) Forwarder
	uploadDir    string
	now          func() time.Time
}

func NewEngine(cfg *Config) *Engine {
	e := &Engine{
		connector:    cfg.Connector,
		classifier:   cfg.Classifier,
		photos:       cfg.Photos,
		audit:        cfg.Audit,
		newResponder: cfg.NewResponder,
		newForwarder: cfg.NewForwarder,
		uploadDir:    cfg.UploadDir,
		now:          cfg.Now,
	}

	if e.classifier == nil {
		e.classifier = classify.DefaultClassifier()
	}
	if e.now == nil {
		e.now = time.Now
	}

	return e
}
