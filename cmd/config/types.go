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

import "time"

// CliConfig holds process-level configuration. Operational settings (mail
// credentials, mirror endpoint, enable flags) live in the database and are
// managed with the config subcommand instead.
type CliConfig struct {
	DatabasePath    string        `json:"database_path"`
	UploadDir       string        `json:"upload_dir"`
	LogLevel        string        `json:"log_level"`
	LogFormat       string        `json:"log_format"`
	NormalInterval  time.Duration `json:"normal_interval"`
	BackoffInterval time.Duration `json:"backoff_interval"`
	IMAPDebug       bool          `json:"imap_debug"`
}
