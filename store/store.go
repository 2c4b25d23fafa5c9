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

// Package store is the pipeline's own SQLite database: the ingestion audit
// log, the mirror sync log, notification state and the settings table. It
// also carries the gallery's photo table, which is the content store's
// insertion interface as far as the pipeline is concerned.
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

var createTableSQL = []string{
	// One row per mailbox message examined, regardless of outcome.
	// status is one of 'success', 'rejected', 'error'.
	`
CREATE TABLE IF NOT EXISTS ingestion_log (
id INTEGER PRIMARY KEY AUTOINCREMENT,
sender_email TEXT NOT NULL,
subject TEXT NOT NULL DEFAULT '',
received_at TIMESTAMP NOT NULL,
processed_at TIMESTAMP NOT NULL,
status TEXT NOT NULL,
photo_count INTEGER NOT NULL DEFAULT 0,
error_message TEXT NOT NULL DEFAULT '',
response_sent INTEGER NOT NULL DEFAULT 0,
response_type TEXT NOT NULL DEFAULT 'none'
);`,
	// One row per mirror forwarding attempt. filename is a soft join
	// key into the content store; no FK on purpose.
	`
CREATE TABLE IF NOT EXISTS mirror_sync_log (
id INTEGER PRIMARY KEY AUTOINCREMENT,
filename TEXT NOT NULL,
file_path TEXT NOT NULL,
sync_date TIMESTAMP NOT NULL,
status TEXT NOT NULL,
remote_asset_id TEXT NOT NULL DEFAULT '',
error_message TEXT NOT NULL DEFAULT '',
retry_count INTEGER NOT NULL DEFAULT 0
);`,
	`
CREATE TABLE IF NOT EXISTS notification_recipients (
id INTEGER PRIMARY KEY AUTOINCREMENT,
identifier TEXT NOT NULL UNIQUE,
display_name TEXT NOT NULL DEFAULT 'Anonymous',
notifications_enabled INTEGER NOT NULL DEFAULT 1,
push_enabled INTEGER NOT NULL DEFAULT 0,
push_subscription TEXT NOT NULL DEFAULT '',
device_info TEXT NOT NULL DEFAULT '',
last_seen TIMESTAMP NOT NULL,
created_at TIMESTAMP NOT NULL
);`,
	// recipient_identifier is deliberately not a hard FK; recipients
	// may be registered lazily after their first notification.
	`
CREATE TABLE IF NOT EXISTS notifications (
id INTEGER PRIMARY KEY AUTOINCREMENT,
recipient_identifier TEXT NOT NULL,
title TEXT NOT NULL,
body TEXT NOT NULL,
kind TEXT NOT NULL DEFAULT 'admin',
created_at TIMESTAMP NOT NULL,
read_at TIMESTAMP,
is_read INTEGER NOT NULL DEFAULT 0,
linked_content_type TEXT NOT NULL DEFAULT '',
linked_content_id INTEGER NOT NULL DEFAULT 0
);`,
	`
CREATE TABLE IF NOT EXISTS photos (
id INTEGER PRIMARY KEY AUTOINCREMENT,
filename TEXT NOT NULL,
original_filename TEXT NOT NULL DEFAULT '',
uploader_name TEXT NOT NULL DEFAULT '',
media_type TEXT NOT NULL DEFAULT 'image',
upload_date TIMESTAMP NOT NULL
);`,
	`
CREATE TABLE IF NOT EXISTS settings (
key TEXT NOT NULL PRIMARY KEY,
value TEXT NOT NULL DEFAULT ''
);`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications (recipient_identifier, is_read);`,
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the pipeline database and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." && !strings.Contains(path, ":memory:") {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating database directory")
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	// A shared in-memory database evaporates when its last connection
	// closes; pin the pool to one connection so it never does.
	if strings.Contains(path, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "setting busy timeout")
	}

	for _, q := range createTableSQL {
		if _, err := db.Exec(q); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "applying schema")
		}
	}

	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SetClock overrides the store's clock. Tests only.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}
