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

package config

import (
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/photopump/photopump/pump"
)

func DefaultConfig() CliConfig {
	return CliConfig{
		DatabasePath:    "photopump.db",
		UploadDir:       "uploads",
		LogLevel:        "info",
		LogFormat:       "text",
		NormalInterval:  pump.DefaultNormalInterval,
		BackoffInterval: pump.DefaultBackoffInterval,
	}
}

func (cfg *CliConfig) Parameters() []cli.Flag {
	def := DefaultConfig()

	return []cli.Flag{
		&cli.StringFlag{
			Name:        "database",
			Usage:       "path to the pipeline database",
			EnvVars:     []string{"PHOTOPUMP_DATABASE"},
			Destination: &cfg.DatabasePath,
			Value:       def.DatabasePath,
		},
		&cli.StringFlag{
			Name:        "upload-dir",
			Usage:       "directory admitted photos are written to",
			EnvVars:     []string{"PHOTOPUMP_UPLOAD_DIR"},
			Destination: &cfg.UploadDir,
			Value:       def.UploadDir,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "logging level",
			EnvVars:     []string{"PHOTOPUMP_LOG_LEVEL"},
			Destination: &cfg.LogLevel,
			Value:       def.LogLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "logging format (text/json)",
			EnvVars:     []string{"PHOTOPUMP_LOG_FORMAT"},
			Destination: &cfg.LogFormat,
			Value:       def.LogFormat,
		},
		&cli.DurationFlag{
			Name:        "poll-interval",
			Usage:       "interval between successful ingestion cycles",
			EnvVars:     []string{"PHOTOPUMP_POLL_INTERVAL"},
			Destination: &cfg.NormalInterval,
			Value:       def.NormalInterval,
		},
		&cli.DurationFlag{
			Name:        "backoff-interval",
			Usage:       "interval after a mailbox connection failure",
			EnvVars:     []string{"PHOTOPUMP_BACKOFF_INTERVAL"},
			Destination: &cfg.BackoffInterval,
			Value:       def.BackoffInterval,
		},
		&cli.BoolFlag{
			Name:        "imap-debug",
			Usage:       "dump the IMAP protocol exchange. for debugging only",
			EnvVars:     []string{"PHOTOPUMP_IMAP_DEBUG"},
			Destination: &cfg.IMAPDebug,
			Value:       def.IMAPDebug,
			Hidden:      true,
		},
	}
}

// InitLogging applies the configured level and format to the global
// logger. An unparseable level is ignored, keeping the default.
func (cfg *CliConfig) InitLogging() {
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}
