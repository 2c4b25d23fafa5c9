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

package run

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/photopump/photopump/cmd/config"
	"github.com/photopump/photopump/imap/client"
	"github.com/photopump/photopump/ingest"
	"github.com/photopump/photopump/mailbox"
	"github.com/photopump/photopump/mirror"
	"github.com/photopump/photopump/pump"
	"github.com/photopump/photopump/responder"
	"github.com/photopump/photopump/settings"
	"github.com/photopump/photopump/store"
)

func RegisterCommand(app *cli.App) *cli.App {
	cfg := &config.CliConfig{}
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "run",
		Usage:  "Run the ingestion pipeline",
		Flags:  cfg.Parameters(),
		Action: func(context *cli.Context) error { return run(context, cfg) },
	})
	return app
}

func run(_ *cli.Context, cfg *config.CliConfig) error {
	cfg.InitLogging()

	log.WithFields(log.Fields{
		"database_path":    cfg.DatabasePath,
		"upload_dir":       cfg.UploadDir,
		"log_level":        cfg.LogLevel,
		"log_format":       cfg.LogFormat,
		"normal_interval":  cfg.NormalInterval,
		"backoff_interval": cfg.BackoffInterval,
	}).Info("starting")

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return err
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	connector := &mailbox.Connector{
		Factory: &client.Factory{},
		TLS:     true,
		Timeout: 30 * time.Second,
		Debug:   cfg.IMAPDebug,
	}
	responders := &responder.Factory{}
	forwarders := &mirror.Factory{}

	engine := ingest.NewEngine(&ingest.Config{
		Connector: ingest.ConnectorFunc(func(email *settings.Email) (ingest.Session, error) {
			return connector.Connect(email)
		}),
		Photos: st,
		Audit:  st,
		NewResponder: func(email *settings.Email, galleryURL string) ingest.Responder {
			return responders.NewResponder(email, galleryURL)
		},
		NewForwarder: func(m *settings.Mirror) ingest.Forwarder {
			return forwarders.NewForwarder(m)
		},
		UploadDir: cfg.UploadDir,
	})

	doneChan := make(chan error)
	stopChan := make(chan struct{})

	pump.NewPhotoPump(&pump.Config{
		Runner:          engine,
		Settings:        st,
		NormalInterval:  cfg.NormalInterval,
		BackoffInterval: cfg.BackoffInterval,
		DoneChan:        doneChan,
		StopChan:        stopChan,
	})

	sigchan := make(chan os.Signal, 10)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)

	sigcount := 0
	for {
		select {
		case sig := <-sigchan:
			log.WithFields(log.Fields{"signal": sig, "count": sigcount}).Trace("caught_signal")

			sigcount += 1
			if sigcount > 1 {
				log.WithFields(log.Fields{"signal": sig}).Warn("received_interrupt_force_exit")
				os.Exit(1)
			}
			log.WithFields(log.Fields{"signal": sig}).Info("received_interrupt")

			close(stopChan)
		case err := <-doneChan:
			log.Info("pump_terminated")
			return err
		}
	}
}
