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

// Package syncall replays the whole gallery to the asset mirror, for
// first-time mirror setup or recovery after an extended mirror outage.
package syncall

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/photopump/photopump/cmd/config"
	"github.com/photopump/photopump/mirror"
	"github.com/photopump/photopump/settings"
	"github.com/photopump/photopump/store"
)

func RegisterCommand(app *cli.App) *cli.App {
	cfg := &config.CliConfig{}
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "sync-all",
		Usage:  "Forward every stored photo to the asset mirror",
		Flags:  cfg.Parameters(),
		Action: func(c *cli.Context) error { return syncAll(c, cfg) },
	})
	return app
}

func syncAll(c *cli.Context, cfg *config.CliConfig) error {
	cfg.InitLogging()

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	mcfg, err := settings.LoadMirror(c.Context, st)
	if err != nil {
		return err
	}
	if !mcfg.Configured() {
		return fmt.Errorf("mirror forwarding is not configured; set mirror_enabled, mirror_server_url and mirror_api_key first")
	}

	forwarder := (&mirror.Factory{}).NewForwarder(mcfg)

	synced, failed, err := mirror.SyncAll(c.Context, forwarder, st, cfg.UploadDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "synced %d file(s), %d failure(s)\n", synced, failed)
	return nil
}
