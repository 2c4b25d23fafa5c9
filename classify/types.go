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

package classify

// Kind is decided purely by filename extension. Content sniffing is the
// gallery's problem, not the pipeline's.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindOther Kind = "other"
)

type Attachment struct {
	Filename string
	Data     []byte
	Kind     Kind
}

// Message is the classified form of one raw mailbox message.
type Message struct {
	Sender      string
	Subject     string
	Attachments []Attachment
}

// PhotoCount counts image-kind attachments only.
func (m *Message) PhotoCount() int {
	n := 0
	for _, a := range m.Attachments {
		if a.Kind == KindImage {
			n++
		}
	}
	return n
}

func (m *Message) HasPhotos() bool {
	return m.PhotoCount() > 0
}

// HasNonPhotos reports whether any attachment was classified video or
// other. Such attachments are never admitted.
func (m *Message) HasNonPhotos() bool {
	for _, a := range m.Attachments {
		if a.Kind != KindImage {
			return true
		}
	}
	return false
}
