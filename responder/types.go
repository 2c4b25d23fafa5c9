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

import "github.com/photopump/photopump/settings"

// Responder sends the confirmation and rejection replies to submitters.
// Built fresh each cycle from that cycle's settings snapshot.
type Responder struct {
	email      *settings.Email
	galleryURL string
}

// Factory builds Responders from per-cycle settings.
type Factory struct{}

func (f *Factory) NewResponder(email *settings.Email, galleryURL string) *Responder {
	return &Responder{email: email, galleryURL: galleryURL}
}
