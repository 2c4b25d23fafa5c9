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
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/backend/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photopump/photopump/imap/client"
	"github.com/photopump/photopump/internal"
	"github.com/photopump/photopump/settings"
)

const testMessage = "From: guest@example.com\r\n" +
	"To: photos@example.com\r\n" +
	"Subject: hello\r\n" +
	"Date: Sat, 01 Jun 2024 12:00:00 +0000\r\n" +
	"Message-ID: <0001@example.com>\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"body here\r\n"

func connectTestSession(t *testing.T, addr string) *Session {
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	conn := &Connector{
		Factory: &client.Factory{},
		TLS:     false,
		Timeout: 10 * time.Second,
	}

	sess, err := conn.Connect(&settings.Email{
		IMAPServer:   host,
		IMAPPort:     port,
		IMAPUsername: "username",
		IMAPPassword: "password",
		Enabled:      true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	return sess
}

func appendTestMessage(mb *memory.Mailbox, uid uint32, flags []string) {
	mb.Messages = append(mb.Messages, &memory.Message{
		Uid:   uid,
		Date:  time.Now(),
		Flags: flags,
		Size:  uint32(len(testMessage)),
		Body:  []byte(testMessage),
	})
}

func TestListUnseenSkipsSeen(t *testing.T) {
	_, addr, mb := internal.BuildTestIMAPServer(t)
	appendTestMessage(mb, 1, []string{imap.SeenFlag})
	appendTestMessage(mb, 2, nil)
	appendTestMessage(mb, 3, nil)

	sess := connectTestSession(t, addr)

	uids, err := sess.ListUnseen()
	require.NoError(t, err)
	assert.Equal(t, []uint32{2, 3}, uids)
}

func TestListUnseenEmptyMailbox(t *testing.T) {
	_, addr, _ := internal.BuildTestIMAPServer(t)
	sess := connectTestSession(t, addr)

	uids, err := sess.ListUnseen()
	require.NoError(t, err)
	assert.Empty(t, uids)
}

func TestFetchReturnsRawMessage(t *testing.T) {
	_, addr, mb := internal.BuildTestIMAPServer(t)
	appendTestMessage(mb, 7, nil)

	sess := connectTestSession(t, addr)

	raw, err := sess.Fetch(7)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Subject: hello")
	assert.Contains(t, string(raw), "body here")
}

func TestFetchUnknownUID(t *testing.T) {
	_, addr, mb := internal.BuildTestIMAPServer(t)
	appendTestMessage(mb, 1, nil)

	sess := connectTestSession(t, addr)

	_, err := sess.Fetch(99)
	assert.Error(t, err)
}

func TestMarkSeenHidesMessage(t *testing.T) {
	_, addr, mb := internal.BuildTestIMAPServer(t)
	appendTestMessage(mb, 1, nil)
	appendTestMessage(mb, 2, nil)

	sess := connectTestSession(t, addr)

	require.NoError(t, sess.MarkSeen(1))

	uids, err := sess.ListUnseen()
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, uids)
}

func TestConnectSASLPlain(t *testing.T) {
	_, addr, mb := internal.BuildTestIMAPServer(t)
	appendTestMessage(mb, 4, nil)

	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	conn := &Connector{Factory: &client.Factory{}, Timeout: 10 * time.Second}
	sess, err := conn.Connect(&settings.Email{
		IMAPServer:   host,
		IMAPPort:     port,
		IMAPUsername: "username",
		IMAPPassword: "password",
		AuthMethod:   "plain",
		Enabled:      true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	uids, err := sess.ListUnseen()
	require.NoError(t, err)
	assert.Equal(t, []uint32{4}, uids)
}

func TestConnectBadCredentials(t *testing.T) {
	_, addr, _ := internal.BuildTestIMAPServer(t)

	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	conn := &Connector{Factory: &client.Factory{}, Timeout: 10 * time.Second}
	_, err = conn.Connect(&settings.Email{
		IMAPServer:   host,
		IMAPPort:     port,
		IMAPUsername: "username",
		IMAPPassword: "wrong",
	})
	assert.Error(t, err)
}
