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

// AddPhotos registers admitted photos with the gallery in one
// transaction. This is the commit the ingest engine waits for before a
// message may be flagged seen: either every photo of a message lands or
// none do.
func (s *Store) AddPhotos(ctx context.Context, photos []Photo) error {
	if len(photos) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning photo transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO photos (filename, original_filename, uploader_name, media_type, upload_date)
VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "preparing photo insert")
	}
	defer stmt.Close()

	for i := range photos {
		p := &photos[i]
		if p.MediaType == "" {
			p.MediaType = "image"
		}
		if p.UploadDate.IsZero() {
			p.UploadDate = s.now()
		}

		res, err := stmt.ExecContext(ctx, p.Filename, p.OriginalFilename, p.UploaderName, p.MediaType, p.UploadDate)
		if err != nil {
			return errors.Wrapf(err, "inserting photo %q", p.Filename)
		}

		if p.ID, err = res.LastInsertId(); err != nil {
			return errors.Wrap(err, "reading photo id")
		}
	}

	return errors.Wrap(tx.Commit(), "committing photos")
}

// ListPhotos returns every gallery photo, oldest first. Used by the bulk
// mirror sync.
func (s *Store) ListPhotos(ctx context.Context) ([]Photo, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, filename, original_filename, uploader_name, media_type, upload_date
FROM photos ORDER BY id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying photos")
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		var p Photo
		if err := rows.Scan(&p.ID, &p.Filename, &p.OriginalFilename, &p.UploaderName, &p.MediaType, &p.UploadDate); err != nil {
			return nil, errors.Wrap(err, "scanning photo")
		}
		photos = append(photos, p)
	}

	return photos, errors.Wrap(rows.Err(), "iterating photos")
}
