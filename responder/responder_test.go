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

package responder

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photopump/photopump/internal"
	"github.com/photopump/photopump/settings"
)

func buildTestResponder(t *testing.T, galleryURL string) (*Responder, *internal.MailRecorder) {
	_, addr, recorder := internal.BuildTestSMTPServer(t)

	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	email := &settings.Email{
		SMTPServer:   host,
		SMTPPort:     port,
		SMTPUsername: "gallery@example.com",
		SMTPPassword: "password",
		Enabled:      true,
	}

	return (&Factory{}).NewResponder(email, galleryURL), recorder
}

func TestSendConfirmation(t *testing.T) {
	r, recorder := buildTestResponder(t, "https://gallery.example.com")

	require.NoError(t, r.SendConfirmation("guest@example.com", 3))

	require.Equal(t, 1, recorder.Count())
	m := recorder.Last()
	assert.Equal(t, "gallery@example.com", m.From)
	assert.Equal(t, []string{"guest@example.com"}, m.To)

	data := string(m.Data)
	assert.Contains(t, data, "Thank you for sharing your wedding photos!")
	assert.Contains(t, data, "3 photo(s)")
	assert.Contains(t, data, "https://gallery.example.com")
}

func TestSendRejection(t *testing.T) {
	r, recorder := buildTestResponder(t, "")

	reason := "We received your email but it didn't contain any photo attachments."
	require.NoError(t, r.SendRejection("guest@example.com", reason))

	require.Equal(t, 1, recorder.Count())
	data := string(recorder.Last().Data)
	assert.Contains(t, data, "Photo upload - only photos accepted")
	assert.Contains(t, data, reason)
	assert.Contains(t, data, "JPG, PNG, GIF, WebP")
}

func TestSendSkipsWhenUnconfigured(t *testing.T) {
	r := (&Factory{}).NewResponder(&settings.Email{Enabled: false}, "")
	assert.NoError(t, r.SendConfirmation("guest@example.com", 1))

	// Enabled but no SMTP username.
	r = (&Factory{}).NewResponder(&settings.Email{Enabled: true}, "")
	assert.NoError(t, r.SendRejection("guest@example.com", "nope"))
}

func TestSendUnreachableServer(t *testing.T) {
	email := &settings.Email{
		SMTPServer:   "127.0.0.1",
		SMTPPort:     1, // nothing listens here
		SMTPUsername: "gallery@example.com",
		Enabled:      true,
	}
	r := (&Factory{}).NewResponder(email, "")
	assert.Error(t, r.SendConfirmation("guest@example.com", 1))
}
