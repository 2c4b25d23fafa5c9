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

package store

import (
	"context"

	"github.com/pkg/errors"
)

// AppendIngestionLog inserts one audit row. Rows are never updated or
// deleted afterwards.
func (s *Store) AppendIngestionLog(ctx context.Context, e *IngestionLogEntry) error {
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = s.now()
	}
	if e.ProcessedAt.IsZero() {
		e.ProcessedAt = s.now()
	}
	if e.ResponseType == "" {
		e.ResponseType = ResponseNone
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO ingestion_log
(sender_email, subject, received_at, processed_at, status, photo_count, error_message, response_sent, response_type)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SenderEmail, e.Subject, e.ReceivedAt, e.ProcessedAt, e.Status,
		e.PhotoCount, e.ErrorMessage, e.ResponseSent, e.ResponseType,
	)
	if err != nil {
		return errors.Wrap(err, "inserting ingestion log entry")
	}

	e.ID, err = res.LastInsertId()
	return errors.Wrap(err, "reading ingestion log id")
}

// ListIngestionLog returns the most recent audit rows, newest first.
func (s *Store) ListIngestionLog(ctx context.Context, limit int) ([]IngestionLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, sender_email, subject, received_at, processed_at, status, photo_count, error_message, response_sent, response_type
FROM ingestion_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying ingestion log")
	}
	defer rows.Close()

	var entries []IngestionLogEntry
	for rows.Next() {
		var e IngestionLogEntry
		if err := rows.Scan(&e.ID, &e.SenderEmail, &e.Subject, &e.ReceivedAt, &e.ProcessedAt,
			&e.Status, &e.PhotoCount, &e.ErrorMessage, &e.ResponseSent, &e.ResponseType); err != nil {
			return nil, errors.Wrap(err, "scanning ingestion log entry")
		}
		entries = append(entries, e)
	}

	return entries, errors.Wrap(rows.Err(), "iterating ingestion log")
}
