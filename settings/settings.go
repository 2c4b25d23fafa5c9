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

// Package settings reads the operator-editable configuration that lives in
// the pipeline database. The scheduler takes one Snapshot per cycle so a
// settings change mid-cycle can never produce a torn view.
package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Source is anything that can resolve a settings key, falling back to a
// default when the key was never written.
type Source interface {
	GetSetting(ctx context.Context, key, def string) (string, error)
}

type Email struct {
	SMTPServer   string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	IMAPServer   string
	IMAPPort     int
	IMAPUsername string
	IMAPPassword string
	// AuthMethod selects "login" (IMAP LOGIN) or "plain" (SASL PLAIN).
	AuthMethod   string
	MonitorEmail string
	Enabled      bool
}

// Configured reports whether the mailbox side of the pipeline can run at
// all. The scheduler skips cycles entirely while this is false.
func (e *Email) Configured() bool {
	return e.Enabled && e.IMAPUsername != ""
}

type Mirror struct {
	Enabled   bool
	ServerURL string
	APIKey    string
	AlbumName string
}

func (m *Mirror) Configured() bool {
	return m.Enabled && m.ServerURL != "" && m.APIKey != ""
}

type Push struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
}

func (p *Push) Configured() bool {
	return p.VAPIDPublicKey != "" && p.VAPIDPrivateKey != ""
}

// Snapshot is one consistent read of everything an ingestion cycle needs.
type Snapshot struct {
	Email     *Email
	Mirror    *Mirror
	PublicURL string
}

func LoadEmail(ctx context.Context, src Source) (*Email, error) {
	e := &Email{}

	var err error
	if e.SMTPServer, err = src.GetSetting(ctx, "smtp_server", "smtp.gmail.com"); err != nil {
		return nil, err
	}
	if e.SMTPPort, err = getInt(ctx, src, "smtp_port", 587); err != nil {
		return nil, err
	}
	if e.SMTPUsername, err = src.GetSetting(ctx, "smtp_username", ""); err != nil {
		return nil, err
	}
	if e.SMTPPassword, err = src.GetSetting(ctx, "smtp_password", ""); err != nil {
		return nil, err
	}
	if e.IMAPServer, err = src.GetSetting(ctx, "imap_server", "imap.gmail.com"); err != nil {
		return nil, err
	}
	if e.IMAPPort, err = getInt(ctx, src, "imap_port", 993); err != nil {
		return nil, err
	}
	if e.IMAPUsername, err = src.GetSetting(ctx, "imap_username", ""); err != nil {
		return nil, err
	}
	if e.IMAPPassword, err = src.GetSetting(ctx, "imap_password", ""); err != nil {
		return nil, err
	}
	if e.AuthMethod, err = src.GetSetting(ctx, "imap_auth_method", "login"); err != nil {
		return nil, err
	}
	if e.MonitorEmail, err = src.GetSetting(ctx, "monitor_email", ""); err != nil {
		return nil, err
	}
	if e.Enabled, err = getBool(ctx, src, "enabled", false); err != nil {
		return nil, err
	}

	return e, nil
}

func LoadMirror(ctx context.Context, src Source) (*Mirror, error) {
	m := &Mirror{}

	var err error
	if m.Enabled, err = getBool(ctx, src, "mirror_enabled", false); err != nil {
		return nil, err
	}
	if m.ServerURL, err = src.GetSetting(ctx, "mirror_server_url", ""); err != nil {
		return nil, err
	}
	if m.APIKey, err = src.GetSetting(ctx, "mirror_api_key", ""); err != nil {
		return nil, err
	}
	if m.AlbumName, err = src.GetSetting(ctx, "mirror_album_name", "Wedding Gallery"); err != nil {
		return nil, err
	}

	return m, nil
}

func LoadPush(ctx context.Context, src Source) (*Push, error) {
	p := &Push{}

	var err error
	if p.VAPIDPublicKey, err = src.GetSetting(ctx, "push_vapid_public_key", ""); err != nil {
		return nil, err
	}
	if p.VAPIDPrivateKey, err = src.GetSetting(ctx, "push_vapid_private_key", ""); err != nil {
		return nil, err
	}
	if p.Subscriber, err = src.GetSetting(ctx, "push_subscriber", ""); err != nil {
		return nil, err
	}

	return p, nil
}

func LoadSnapshot(ctx context.Context, src Source) (*Snapshot, error) {
	email, err := LoadEmail(ctx, src)
	if err != nil {
		return nil, err
	}

	mirror, err := LoadMirror(ctx, src)
	if err != nil {
		return nil, err
	}

	publicURL, err := src.GetSetting(ctx, "public_url", "")
	if err != nil {
		return nil, err
	}

	return &Snapshot{Email: email, Mirror: mirror, PublicURL: publicURL}, nil
}

func getInt(ctx context.Context, src Source, key string, def int) (int, error) {
	raw, err := src.GetSetting(ctx, key, strconv.Itoa(def))
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("setting %q: invalid integer %q", key, raw)
	}

	return n, nil
}

func getBool(ctx context.Context, src Source, key string, def bool) (bool, error) {
	raw, err := src.GetSetting(ctx, key, strconv.FormatBool(def))
	if err != nil {
		return false, err
	}

	return strings.EqualFold(strings.TrimSpace(raw), "true"), nil
}
