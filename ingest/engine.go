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

// Package ingest is the per-message state machine at the centre of the
// pipeline. A message is only ever flagged seen after its photos have been
// committed, so a crash at any earlier point re-offers the message on the
// next cycle instead of dropping it.
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/photopump/photopump/classify"
	"github.com/photopump/photopump/settings"
	"github.com/photopump/photopump/store"
)

// savedPhoto pairs a committed photo row with its on-disk location for
// the mirror forwarding that follows.
type savedPhoto struct {
	photo store.Photo
	path  string
}

// RunCycle processes every unseen message once. Connect and ListUnseen
// failures propagate to the scheduler's backoff path; everything after
// that is caught per message.
func (e *Engine) RunCycle(ctx context.Context, snap *settings.Snapshot) error {
	sess, err := e.connector.Connect(snap.Email)
	if err != nil {
		return err
	}
	defer sess.Close()

	uids, err := sess.ListUnseen()
	if err != nil {
		return err
	}

	log.WithField("count", len(uids)).Debug("cycle_start")

	resp := e.newResponder(snap.Email, snap.PublicURL)

	var fwd Forwarder
	if snap.Mirror.Configured() {
		fwd = e.newForwarder(snap.Mirror)
	}

	for _, uid := range uids {
		e.processMessage(ctx, sess, uid, resp, fwd, snap.PublicURL)
	}

	return nil
}

// processMessage runs one message through the state machine. It never
// returns an error: per-message failures end in an error audit row and the
// message left unseen for the next cycle.
func (e *Engine) processMessage(ctx context.Context, sess Session, uid uint32, resp Responder, fwd Forwarder, galleryURL string) {
	raw, err := sess.Fetch(uid)
	if err != nil {
		e.logFailure(ctx, uid, "Unknown", "", err)
		return
	}

	msg, err := e.classifier.Parse(raw)
	if err != nil {
		e.logFailure(ctx, uid, "Unknown", "", err)
		return
	}

	saved, err := e.admitPhotos(ctx, msg)
	if err != nil {
		e.logFailure(ctx, uid, msg.Sender, msg.Subject, err)
		return
	}

	entry := &store.IngestionLogEntry{
		SenderEmail: msg.Sender,
		Subject:     msg.Subject,
	}

	if len(saved) > 0 {
		entry.Status = store.StatusSuccess
		entry.PhotoCount = len(saved)
		entry.ResponseSent = true
		entry.ResponseType = store.ResponseConfirmation

		// No public gallery URL means nothing sensible to link to, so
		// the confirmation is skipped outright.
		if galleryURL != "" {
			if err := resp.SendConfirmation(msg.Sender, len(saved)); err != nil {
				log.WithError(err).WithField("to", msg.Sender).Warn("ingest_confirmation_failed")
			}
		}
	} else {
		entry.Status = store.StatusRejected
		entry.ResponseSent = true
		entry.ResponseType = store.ResponseRejection

		if err := resp.SendRejection(msg.Sender, RejectionReason); err != nil {
			log.WithError(err).WithField("to", msg.Sender).Warn("ingest_rejection_failed")
		}
	}

	if err := e.audit.AppendIngestionLog(ctx, entry); err != nil {
		// Leave the message unseen; it will be reprocessed next cycle.
		log.WithError(err).WithField("uid", uid).Error("ingest_audit_failed")
		return
	}

	if err := sess.MarkSeen(uid); err != nil {
		log.WithError(err).WithField("uid", uid).Warn("ingest_mark_seen_failed")
		return
	}

	log.WithFields(log.Fields{
		"uid":         uid,
		"sender":      msg.Sender,
		"status":      entry.Status,
		"photo_count": entry.PhotoCount,
	}).Info("ingest_message_processed")

	if fwd != nil {
		for _, sp := range saved {
			e.forward(ctx, fwd, sp)
		}
	}
}

// admitPhotos writes every image attachment to the upload directory and
// registers them with the content store in one transaction. A message
// with no image attachments returns nil, nil.
func (e *Engine) admitPhotos(ctx context.Context, msg *classify.Message) ([]savedPhoto, error) {
	stamp := e.now().Format("20060102_150405")
	seen := map[string]int{}

	var saved []savedPhoto
	for _, a := range msg.Attachments {
		if a.Kind != classify.KindImage {
			continue
		}

		// Same-named attachments in one message share the timestamp, so
		// repeats get a counter suffix to keep the stored name unique.
		base := stamp + "_" + SanitizeFilename(a.Filename)
		unique := base
		if n := seen[base]; n > 0 {
			ext := filepath.Ext(base)
			unique = strings.TrimSuffix(base, ext) + "_" + strconv.Itoa(n) + ext
		}
		seen[base]++

		path := filepath.Join(e.uploadDir, unique)

		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return nil, errors.Wrapf(err, "writing %q", unique)
		}

		saved = append(saved, savedPhoto{
			photo: store.Photo{
				Filename:         unique,
				OriginalFilename: a.Filename,
				UploaderName:     msg.Sender,
				MediaType:        "image",
			},
			path: path,
		})
	}

	if len(saved) == 0 {
		return nil, nil
	}

	photos := make([]store.Photo, len(saved))
	for i := range saved {
		photos[i] = saved[i].photo
	}

	if err := e.photos.AddPhotos(ctx, photos); err != nil {
		return nil, err
	}

	for i := range saved {
		saved[i].photo = photos[i]
	}

	return saved, nil
}

// forward pushes one admitted file to the mirror and records the attempt.
// Runs strictly after markSeen; nothing here can affect the ingestion
// outcome.
func (e *Engine) forward(ctx context.Context, fwd Forwarder, sp savedPhoto) {
	record := &store.MirrorSyncRecord{
		Filename: sp.photo.Filename,
		FilePath: sp.path,
	}

	assetID, err := fwd.Forward(ctx, sp.path, sp.photo.Filename, "Wedding photo by "+sp.photo.UploaderName)
	if err != nil {
		record.Status = store.StatusError
		record.ErrorMessage = err.Error()
		log.WithError(err).WithField("filename", sp.photo.Filename).Warn("ingest_forward_failed")
	} else {
		record.Status = store.StatusSuccess
		record.RemoteAssetID = assetID
	}

	if err := e.audit.AppendMirrorSync(ctx, record); err != nil {
		log.WithError(err).WithField("filename", sp.photo.Filename).Warn("ingest_sync_log_failed")
	}
}

func (e *Engine) logFailure(ctx context.Context, uid uint32, sender, subject string, cause error) {
	log.WithError(cause).WithFields(log.Fields{
		"uid":    uid,
		"sender": sender,
	}).Error("ingest_message_failed")

	entry := &store.IngestionLogEntry{
		SenderEmail:  sender,
		Subject:      subject,
		Status:       store.StatusError,
		ErrorMessage: cause.Error(),
	}
	if err := e.audit.AppendIngestionLog(ctx, entry); err != nil {
		log.WithError(err).WithField("uid", uid).Error("ingest_audit_failed")
	}
}
