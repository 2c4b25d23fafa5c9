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

// Package configure manages the operational settings stored in the
// pipeline database, replacing the admin UI the pipeline deliberately
// doesn't ship with.
package configure

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/photopump/photopump/cmd/config"
	"github.com/photopump/photopump/store"
)

func RegisterCommand(app *cli.App) *cli.App {
	cfg := &config.CliConfig{}
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Manage settings stored in the pipeline database",
		Flags: cfg.Parameters(),
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Print the value of a settings key",
				ArgsUsage: "<key>",
				Action:    func(c *cli.Context) error { return get(c, cfg) },
			},
			{
				Name:      "set",
				Usage:     "Set a settings key",
				ArgsUsage: "<key> <value>",
				Action:    func(c *cli.Context) error { return set(c, cfg) },
			},
			{
				Name:   "list",
				Usage:  "List all stored settings",
				Action: func(c *cli.Context) error { return list(c, cfg) },
			},
		},
	})
	return app
}

func get(c *cli.Context, cfg *config.CliConfig) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: config get <key>")
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	value, err := st.GetSetting(c.Context, c.Args().Get(0), "")
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, value)
	return nil
}

func set(c *cli.Context, cfg *config.CliConfig) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: config set <key> <value>")
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	return st.SetSetting(c.Context, c.Args().Get(0), c.Args().Get(1))
}

func list(c *cli.Context, cfg *config.CliConfig) error {
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	pairs, err := st.AllSettings(c.Context)
	if err != nil {
		return err
	}

	for _, kv := range pairs {
		fmt.Fprintf(c.App.Writer, "%s=%s\n", kv[0], kv[1])
	}
	return nil
}
