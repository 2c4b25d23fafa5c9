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

package pump

import (
	"context"
	"time"

	"github.com/photopump/photopump/settings"
)

const (
	DefaultNormalInterval  = 300 * time.Second
	DefaultBackoffInterval = 600 * time.Second
)

// CycleRunner is one ingestion pass over the mailbox.
type CycleRunner interface {
	RunCycle(ctx context.Context, snap *settings.Snapshot) error
}

type Config struct {
	Runner   CycleRunner
	Settings settings.Source

	// NormalInterval separates successful cycles; BackoffInterval is used
	// after a connection-level failure.
	NormalInterval  time.Duration
	BackoffInterval time.Duration

	DoneChan chan<- error
	StopChan <-chan struct{}
}

// PhotoPump is the long-lived scheduler. It owns no mailbox state; the
// runner reconnects every cycle from a fresh settings snapshot.
type PhotoPump struct {
	runner          CycleRunner
	settings        settings.Source
	normalInterval  time.Duration
	backoffInterval time.Duration
}
