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

// Package broadcast sends an announcement to every enabled notification
// recipient, standing in for the admin UI the pipeline doesn't ship with.
package broadcast

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/photopump/photopump/cmd/config"
	"github.com/photopump/photopump/notify"
	"github.com/photopump/photopump/settings"
	"github.com/photopump/photopump/store"
)

func RegisterCommand(app *cli.App) *cli.App {
	cfg := &config.CliConfig{}
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "broadcast",
		Usage:     "Send an announcement to all enabled notification recipients",
		ArgsUsage: "<title> <message>",
		Flags:     cfg.Parameters(),
		Action:    func(c *cli.Context) error { return broadcast(c, cfg) },
	})
	return app
}

func broadcast(c *cli.Context, cfg *config.CliConfig) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: broadcast <title> <message>")
	}
	cfg.InitLogging()

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	pcfg, err := settings.LoadPush(c.Context, st)
	if err != nil {
		return err
	}

	// Without VAPID keys the announcement still lands in every
	// recipient's in-app feed, it just isn't pushed.
	var sender notify.PushSender
	if pcfg.Configured() {
		sender = notify.NewWebPushSender(pcfg)
	}

	svc := notify.NewService(st, sender)

	n, err := svc.Broadcast(c.Context, c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "notified %d recipient(s)\n", n)
	return nil
}
