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

// Package pump runs the ingestion engine on a fixed cadence. A cycle that
// fails at the connection level pushes the next attempt out to the backoff
// interval so a mailbox outage degrades gracefully instead of busy-looping.
package pump

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/photopump/photopump/settings"
)

// NewPhotoPump starts the scheduler loop in its own goroutine. The loop
// runs until StopChan is closed; its final error (always nil today) is
// delivered on DoneChan.
func NewPhotoPump(cfg *Config) *PhotoPump {
	p := &PhotoPump{
		runner:          cfg.Runner,
		settings:        cfg.Settings,
		normalInterval:  cfg.NormalInterval,
		backoffInterval: cfg.BackoffInterval,
	}

	if p.normalInterval <= 0 {
		p.normalInterval = DefaultNormalInterval
	}
	if p.backoffInterval <= 0 {
		p.backoffInterval = DefaultBackoffInterval
	}

	go func() { cfg.DoneChan <- p.tick(cfg.StopChan) }()

	return p
}

func (p *PhotoPump) tick(stop <-chan struct{}) error {
	timer := time.NewTimer(0) // first cycle runs immediately
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			timer.Reset(p.runOnce(stop))
		case <-stop:
			log.Trace("exit_requested")
			return nil
		}
	}
}

// runOnce executes a single cycle and returns the delay before the next.
// Settings are re-read every cycle so an operator change takes effect on
// the next pass without a restart.
func (p *PhotoPump) runOnce(stop <-chan struct{}) time.Duration {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	snap, err := settings.LoadSnapshot(ctx, p.settings)
	if err != nil {
		log.WithError(err).Error("pump_settings_failed")
		return p.backoffInterval
	}

	if !snap.Email.Configured() {
		log.Debug("pump_cycle_skipped")
		return p.normalInterval
	}

	if err := p.runner.RunCycle(ctx, snap); err != nil {
		log.WithError(err).Error("pump_cycle_failed")
		return p.backoffInterval
	}

	log.Trace("pump_cycle_complete")
	return p.normalInterval
}
