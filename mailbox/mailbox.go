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
	"io"
	"net"
	"sort"
	"strconv"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-sasl"
	log "github.com/sirupsen/logrus"

	imap2 "github.com/photopump/photopump/imap"
	"github.com/photopump/photopump/settings"
)

var rfc822Section *imap.BodySectionName

func init() {
	s, err := imap.ParseBodySectionName(imap.FetchRFC822)
	if err != nil {
		panic(err)
	}
	rfc822Section = s
}

// Connect establishes the session for one cycle. Any dial, auth or SELECT
// failure propagates to the caller; the scheduler treats it as a
// connection-level outage and backs off.
func (c *Connector) Connect(email *settings.Email) (*Session, error) {
	hostPort := net.JoinHostPort(email.IMAPServer, strconv.Itoa(email.IMAPPort))

	log.WithFields(log.Fields{
		"host_port":   hostPort,
		"username":    email.IMAPUsername,
		"auth_method": email.AuthMethod,
	}).Debug("mailbox_connect")

	var auth imap2.Authenticator
	if strings.EqualFold(email.AuthMethod, "plain") {
		auth = imap2.NewSASLAuthenticator(sasl.NewPlainClient("", email.IMAPUsername, email.IMAPPassword))
	} else {
		auth = imap2.NewNormalAuthenticator(email.IMAPUsername, email.IMAPPassword)
	}

	cli, err := c.Factory.NewClient(&imap2.ClientConfig{
		HostPort: hostPort,
		Auth:     auth,
		TLS:      c.TLS,
		Timeout:  c.Timeout,
		Debug:    c.Debug,
	})
	if err != nil {
		return nil, err
	}

	if _, err := cli.Select("INBOX", false); err != nil {
		_ = cli.Logout()
		return nil, err
	}

	return &Session{client: cli}, nil
}

// ListUnseen returns the UIDs of all messages not yet flagged \Seen, in
// ascending order. An empty mailbox is not an error.
func (s *Session) ListUnseen() ([]uint32, error) {
	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}

	uids, err := s.client.UidSearch(criteria)
	if err != nil {
		return nil, err
	}

	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })

	log.WithField("count", len(uids)).Debug("mailbox_list_unseen")
	return uids, nil
}

// Fetch returns the raw RFC 822 bytes of a single message.
func (s *Session) Fetch(uid uint32) ([]byte, error) {
	seqset := new(imap.SeqSet)
	seqset.AddNum(uid)

	ch := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.client.UidFetch(seqset, []imap.FetchItem{imap.FetchRFC822}, ch)
	}()

	var raw []byte
	var readErr error
	for msg := range ch {
		body := msg.GetBody(rfc822Section)
		if body == nil {
			readErr = errNoBody
			continue
		}

		b, err := io.ReadAll(body)
		if err != nil {
			readErr = err
			continue
		}
		raw = b
	}

	if err := <-done; err != nil {
		return nil, err
	}
	if readErr != nil {
		return nil, readErr
	}
	if raw == nil {
		return nil, errNoSuchMessage
	}

	log.WithFields(log.Fields{"uid": uid, "size": len(raw)}).Trace("mailbox_fetch")
	return raw, nil
}

// MarkSeen flags a message \Seen so subsequent ListUnseen calls skip it.
// Only called after the message's local transaction has committed.
func (s *Session) MarkSeen(uid uint32) error {
	seqset := new(imap.SeqSet)
	seqset.AddNum(uid)

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	if err := s.client.UidStore(seqset, item, []interface{}{imap.SeenFlag}, nil); err != nil {
		return err
	}

	log.WithField("uid", uid).Trace("mailbox_mark_seen")
	return nil
}

func (s *Session) Close() error {
	return s.client.Logout()
}
