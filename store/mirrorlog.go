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

// AppendMirrorSync records one forwarding attempt, successful or not.
func (s *Store) AppendMirrorSync(ctx context.Context, r *MirrorSyncRecord) error {
	if r.SyncDate.IsZero() {
		r.SyncDate = s.now()
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO mirror_sync_log
(filename, file_path, sync_date, status, remote_asset_id, error_message, retry_count)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Filename, r.FilePath, r.SyncDate, r.Status, r.RemoteAssetID, r.ErrorMessage, r.RetryCount,
	)
	if err != nil {
		return errors.Wrap(err, "inserting mirror sync record")
	}

	r.ID, err = res.LastInsertId()
	return errors.Wrap(err, "reading mirror sync id")
}

// ListMirrorSync returns the most recent forwarding attempts, newest first.
func (s *Store) ListMirrorSync(ctx context.Context, limit int) ([]MirrorSyncRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, filename, file_path, sync_date, status, remote_asset_id, error_message, retry_count
FROM mirror_sync_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying mirror sync log")
	}
	defer rows.Close()

	var records []MirrorSyncRecord
	for rows.Next() {
		var r MirrorSyncRecord
		if err := rows.Scan(&r.ID, &r.Filename, &r.FilePath, &r.SyncDate, &r.Status,
			&r.RemoteAssetID, &r.ErrorMessage, &r.RetryCount); err != nil {
			return nil, errors.Wrap(err, "scanning mirror sync record")
		}
		records = append(records, r)
	}

	return records, errors.Wrap(rows.Err(), "iterating mirror sync log")
}
