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

package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapSource resolves settings from a plain map, like the database table
// would.
type mapSource map[string]string

func (m mapSource) GetSetting(_ context.Context, key, def string) (string, error) {
	if v, ok := m[key]; ok {
		return v, nil
	}
	return def, nil
}

func TestLoadEmailDefaults(t *testing.T) {
	e, err := LoadEmail(context.Background(), mapSource{})
	require.NoError(t, err)

	assert.Equal(t, "smtp.gmail.com", e.SMTPServer)
	assert.Equal(t, 587, e.SMTPPort)
	assert.Equal(t, "imap.gmail.com", e.IMAPServer)
	assert.Equal(t, 993, e.IMAPPort)
	assert.Equal(t, "login", e.AuthMethod)
	assert.False(t, e.Enabled)
	assert.False(t, e.Configured())
}

func TestLoadEmailConfigured(t *testing.T) {
	src := mapSource{
		"imap_server":      "mail.example.com",
		"imap_port":        "143",
		"imap_username":    "photos@example.com",
		"imap_password":    "hunter2",
		"imap_auth_method": "plain",
		"enabled":          "True",
	}

	e, err := LoadEmail(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, "mail.example.com", e.IMAPServer)
	assert.Equal(t, 143, e.IMAPPort)
	assert.Equal(t, "plain", e.AuthMethod)
	assert.True(t, e.Enabled)
	assert.True(t, e.Configured())
}

func TestLoadEmailEnabledWithoutUsername(t *testing.T) {
	e, err := LoadEmail(context.Background(), mapSource{"enabled": "true"})
	require.NoError(t, err)
	assert.True(t, e.Enabled)
	assert.False(t, e.Configured())
}

func TestLoadEmailBadPort(t *testing.T) {
	_, err := LoadEmail(context.Background(), mapSource{"imap_port": "not-a-port"})
	assert.Error(t, err)
}

func TestLoadMirror(t *testing.T) {
	m, err := LoadMirror(context.Background(), mapSource{})
	require.NoError(t, err)
	assert.Equal(t, "Wedding Gallery", m.AlbumName)
	assert.False(t, m.Configured())

	m, err = LoadMirror(context.Background(), mapSource{
		"mirror_enabled":    "true",
		"mirror_server_url": "https://immich.example.com",
		"mirror_api_key":    "k",
	})
	require.NoError(t, err)
	assert.True(t, m.Configured())

	// Enabled but missing key: not configured.
	m, err = LoadMirror(context.Background(), mapSource{
		"mirror_enabled":    "true",
		"mirror_server_url": "https://immich.example.com",
	})
	require.NoError(t, err)
	assert.False(t, m.Configured())
}

func TestLoadPush(t *testing.T) {
	p, err := LoadPush(context.Background(), mapSource{})
	require.NoError(t, err)
	assert.False(t, p.Configured())

	p, err = LoadPush(context.Background(), mapSource{
		"push_vapid_public_key":  "pub",
		"push_vapid_private_key": "priv",
		"push_subscriber":        "mailto:admin@example.com",
	})
	require.NoError(t, err)
	assert.True(t, p.Configured())
}

func TestLoadSnapshot(t *testing.T) {
	snap, err := LoadSnapshot(context.Background(), mapSource{
		"enabled":       "true",
		"imap_username": "photos@example.com",
		"public_url":    "https://gallery.example.com",
	})
	require.NoError(t, err)

	assert.True(t, snap.Email.Configured())
	assert.False(t, snap.Mirror.Configured())
	assert.Equal(t, "https://gallery.example.com", snap.PublicURL)
}
