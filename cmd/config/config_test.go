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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func parseFlags(t *testing.T, cfg *CliConfig, args ...string) {
	app := &cli.App{
		Flags:  cfg.Parameters(),
		Action: func(*cli.Context) error { return nil },
	}
	require.NoError(t, app.Run(append([]string{"photopump"}, args...)))
}

func TestDefaults(t *testing.T) {
	cfg := &CliConfig{}
	parseFlags(t, cfg)

	assert.Equal(t, "photopump.db", cfg.DatabasePath)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 300*time.Second, cfg.NormalInterval)
	assert.Equal(t, 600*time.Second, cfg.BackoffInterval)
	assert.False(t, cfg.IMAPDebug)
}

func TestFlagOverrides(t *testing.T) {
	cfg := &CliConfig{}
	parseFlags(t, cfg,
		"--database", "/data/pump.db",
		"--upload-dir", "/data/uploads",
		"--log-level", "debug",
		"--log-format", "json",
		"--poll-interval", "1m",
		"--backoff-interval", "5m",
	)

	assert.Equal(t, "/data/pump.db", cfg.DatabasePath)
	assert.Equal(t, "/data/uploads", cfg.UploadDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, time.Minute, cfg.NormalInterval)
	assert.Equal(t, 5*time.Minute, cfg.BackoffInterval)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PHOTOPUMP_DATABASE", "/env/pump.db")
	t.Setenv("PHOTOPUMP_POLL_INTERVAL", "90s")

	cfg := &CliConfig{}
	parseFlags(t, cfg)

	assert.Equal(t, "/env/pump.db", cfg.DatabasePath)
	assert.Equal(t, 90*time.Second, cfg.NormalInterval)
}
