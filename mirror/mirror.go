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

// Package mirror forwards admitted files to an Immich-compatible asset
// server. Forwarding is strictly best-effort: a mirror outage must never
// block or fail an ingestion, so callers record the outcome in the sync
// log and carry on.
package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/photopump/photopump/store"
)

// Forward uploads one file and returns the mirror's asset id. Album
// placement failures are logged but do not fail the upload; the asset is
// already on the mirror at that point.
func (f *Forwarder) Forward(ctx context.Context, filePath, filename, description string) (string, error) {
	if !f.cfg.Configured() {
		return "", errNotConfigured
	}

	fh, err := os.Open(filePath)
	if err != nil {
		return "", errors.Wrapf(err, "opening %q", filePath)
	}
	defer fh.Close()

	assetID, err := f.upload(ctx, fh, filename, description)
	if err != nil {
		return "", err
	}

	if f.cfg.AlbumName != "" {
		if err := f.addToAlbum(ctx, assetID); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"asset_id": assetID,
				"album":    f.cfg.AlbumName,
			}).Warn("mirror_album_add_failed")
		}
	}

	log.WithFields(log.Fields{
		"filename": filename,
		"asset_id": assetID,
	}).Info("mirror_forwarded")
	return assetID, nil
}

func (f *Forwarder) upload(ctx context.Context, r io.Reader, filename, description string) (string, error) {
	now := time.Now().Format(time.RFC3339)

	bb := new(bytes.Buffer)
	mw := multipart.NewWriter(bb)

	fields := map[string]string{
		"deviceAssetId":  filename,
		"deviceId":       deviceID,
		"fileCreatedAt":  now,
		"fileModifiedAt": now,
		"isFavorite":     "false",
		"fileExtension":  strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."),
		"description":    description,
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return "", errors.Wrap(err, "writing form field")
		}
	}

	fw, err := mw.CreateFormFile("assetData", filename)
	if err != nil {
		return "", errors.Wrap(err, "creating form file")
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", errors.Wrap(err, "copying file data")
	}
	if err := mw.Close(); err != nil {
		return "", errors.Wrap(err, "closing multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL()+"/api/asset/upload", bb)
	if err != nil {
		return "", errors.Wrap(err, "building upload request")
	}
	req.Header.Set("x-api-key", f.cfg.APIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "uploading asset")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("mirror upload failed: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var asset struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return "", errors.Wrap(err, "decoding upload response")
	}
	if asset.ID == "" {
		return "", errors.New("mirror upload response had no asset id")
	}

	return asset.ID, nil
}

func (f *Forwarder) addToAlbum(ctx context.Context, assetID string) error {
	payload, err := json.Marshal(map[string][]string{"ids": {assetID}})
	if err != nil {
		return errors.Wrap(err, "encoding album request")
	}

	url := f.baseURL() + "/api/album/" + f.cfg.AlbumName + "/assets"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "building album request")
	}
	req.Header.Set("x-api-key", f.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "adding asset to album")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("album add failed: %d", resp.StatusCode)
	}

	return nil
}

func (f *Forwarder) baseURL() string {
	return strings.TrimRight(f.cfg.ServerURL, "/")
}

// SyncAll forwards every gallery file to the mirror, recording each
// attempt in the sync log. Individual failures do not stop the run.
func SyncAll(ctx context.Context, f *Forwarder, st SyncStore, uploadDir string) (synced, failed int, err error) {
	if !f.cfg.Configured() {
		return 0, 0, errNotConfigured
	}

	photos, err := st.ListPhotos(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, p := range photos {
		filePath := filepath.Join(uploadDir, p.Filename)

		kind := "photo"
		if p.MediaType == "video" {
			kind = "video"
		}
		description := fmt.Sprintf("Wedding %s by %s", kind, p.UploaderName)

		record := &store.MirrorSyncRecord{
			Filename: p.Filename,
			FilePath: filePath,
		}

		assetID, ferr := f.Forward(ctx, filePath, p.Filename, description)
		if ferr != nil {
			record.Status = store.StatusError
			record.ErrorMessage = ferr.Error()
			failed++
		} else {
			record.Status = store.StatusSuccess
			record.RemoteAssetID = assetID
			synced++
		}

		if err := st.AppendMirrorSync(ctx, record); err != nil {
			return synced, failed, err
		}
	}

	log.WithFields(log.Fields{
		"synced": synced,
		"failed": failed,
	}).Info("mirror_sync_all")
	return synced, failed, nil
}
