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

package mirror

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/photopump/photopump/settings"
	"github.com/photopump/photopump/store"
)

// deviceID identifies this pipeline to the asset mirror.
const deviceID = "wedding-gallery"

var errNotConfigured = errors.New("mirror forwarding not configured")

// Forwarder uploads admitted files to an Immich-compatible asset mirror.
// Built fresh each cycle from that cycle's settings snapshot.
type Forwarder struct {
	cfg    *settings.Mirror
	client *http.Client
}

// SyncStore is the slice of the pipeline database the bulk sync needs.
type SyncStore interface {
	ListPhotos(ctx context.Context) ([]store.Photo, error)
	AppendMirrorSync(ctx context.Context, r *store.MirrorSyncRecord) error
}

// Factory builds Forwarders from per-cycle settings.
type Factory struct{}

func (f *Factory) NewForwarder(cfg *settings.Mirror) *Forwarder {
	return &Forwarder{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}
