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

package mailbox

import (
	"errors"
	"time"

	imap2 "github.com/photopump/photopump/imap"
)

// Connector dials, authenticates and selects INBOX, yielding one Session
// per ingestion cycle. Sessions are never shared across cycles.
type Connector struct {
	Factory imap2.Factory

	// TLS is on for real servers; tests run against a plaintext
	// in-process server.
	TLS     bool
	Timeout time.Duration
	Debug   bool
}

// Session is a live, authenticated IMAP session with INBOX selected.
type Session struct {
	client imap2.Client
}

var (
	errNoSuchMessage = errors.New("no such message")
	errNoBody        = errors.New("message has no body")
)
