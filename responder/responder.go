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

// Package responder sends the automated replies to people who submit
// photos by email. Reply failures are reported to the caller but are never
// allowed to fail an ingestion; the engine logs them and moves on.
package responder

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	log "github.com/sirupsen/logrus"
)

const confirmationSubject = "Thank you for sharing your wedding photos!"

const confirmationBody = `Hi there!

Thank you so much for sharing your wedding photos with us! We've successfully added %d photo(s) to our wedding gallery.

You can view all the photos here: %s

We're so grateful to have these memories captured from your perspective. Thank you for being part of our special day!

Best wishes,
The Happy Couple
`

const rejectionSubject = "Photo upload - only photos accepted"

const rejectionBody = `Hi there!

Thank you for trying to share content with our wedding gallery! However, we can only accept photo attachments at this time.

%s

Please send only photo files (JPG, PNG, GIF, WebP) as attachments to this email address.

Thank you for understanding!

Best wishes,
The Happy Couple
`

// SendConfirmation thanks a submitter whose photos were admitted. A
// responder with no SMTP credentials quietly sends nothing.
func (r *Responder) SendConfirmation(to string, photoCount int) error {
	body := fmt.Sprintf(confirmationBody, photoCount, r.galleryURL)
	return r.send(to, confirmationSubject, body)
}

// SendRejection tells a submitter why their message was turned away.
func (r *Responder) SendRejection(to string, reason string) error {
	body := fmt.Sprintf(rejectionBody, reason)
	return r.send(to, rejectionSubject, body)
}

func (r *Responder) send(to, subject, body string) error {
	if !r.email.Enabled || r.email.SMTPUsername == "" {
		log.WithField("to", to).Debug("responder_skip_unconfigured")
		return nil
	}

	msg, err := buildMessage(r.email.SMTPUsername, to, subject, body)
	if err != nil {
		return err
	}

	var auth sasl.Client
	if r.email.SMTPPassword != "" {
		auth = sasl.NewPlainClient("", r.email.SMTPUsername, r.email.SMTPPassword)
	}

	addr := net.JoinHostPort(r.email.SMTPServer, strconv.Itoa(r.email.SMTPPort))
	if err := smtp.SendMail(addr, auth, r.email.SMTPUsername, []string{to}, bytes.NewReader(msg)); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"to":      to,
		"subject": subject,
	}).Info("responder_sent")
	return nil
}

func buildMessage(from, to, subject, body string) ([]byte, error) {
	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*mail.Address{{Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetSubject(subject)

	bb := new(bytes.Buffer)
	w, err := mail.CreateSingleInlineWriter(bb, h)
	if err != nil {
		return nil, err
	}

	if _, err := io.WriteString(w, body); err != nil {
		_ = w.Close()
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return bb.Bytes(), nil
}
