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

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// Classifier decodes raw RFC 822 bytes and tags each attachment by
// extension against its allow-lists.
type Classifier struct {
	imageExts map[string]struct{}
	videoExts map[string]struct{}
}

func NewClassifier(imageExts, videoExts []string) *Classifier {
	c := &Classifier{
		imageExts: map[string]struct{}{},
		videoExts: map[string]struct{}{},
	}

	for _, e := range imageExts {
		c.imageExts[strings.ToLower(e)] = struct{}{}
	}
	for _, e := range videoExts {
		c.videoExts[strings.ToLower(e)] = struct{}{}
	}

	return c
}

// DefaultClassifier uses the gallery's stock allow-lists.
func DefaultClassifier() *Classifier {
	return NewClassifier(
		[]string{"png", "jpg", "jpeg", "gif", "webp"},
		[]string{"mp4", "mov", "avi", "webm"},
	)
}

// Parse decodes one message. Any part carrying a filename is treated as an
// attachment regardless of its disposition; the message body itself has no
// filename and is ignored. Parsing the same bytes twice yields an identical
// result.
func (c *Classifier) Parse(raw []byte) (*Message, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	msg := &Message{}

	msg.Sender = ExtractAddress(mr.Header.Get("From"))
	if subject, err := mr.Header.Subject(); err == nil {
		msg.Subject = subject
	} else {
		msg.Subject = mr.Header.Get("Subject")
	}

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		filename := partFilename(p)
		if filename == "" {
			continue
		}

		data, err := io.ReadAll(p.Body)
		if err != nil {
			return nil, err
		}

		msg.Attachments = append(msg.Attachments, Attachment{
			Filename: filename,
			Data:     data,
			Kind:     c.Classify(filename),
		})
	}

	return msg, nil
}

// partFilename extracts a part's filename from its Content-Disposition
// params, falling back to the Content-Type name param. Phone mail clients
// routinely send photos with an inline disposition, so inline parts are
// checked too.
func partFilename(p *mail.Part) string {
	switch h := p.Header.(type) {
	case *mail.AttachmentHeader:
		filename, _ := h.Filename()
		return filename
	case *mail.InlineHeader:
		if _, params, err := h.ContentDisposition(); err == nil {
			if filename := params["filename"]; filename != "" {
				return filename
			}
		}
		_, params, _ := h.ContentType()
		return params["name"]
	}

	return ""
}

// Classify tags a filename by extension alone.
func (c *Classifier) Classify(filename string) Kind {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return KindOther
	}

	if _, ok := c.imageExts[ext]; ok {
		return KindImage
	}
	if _, ok := c.videoExts[ext]; ok {
		return KindVideo
	}

	return KindOther
}

// ExtractAddress pulls the address out of a "Name <addr>" From header.
// Anything that doesn't match that shape is returned verbatim.
func ExtractAddress(from string) string {
	if i := strings.Index(from, "<"); i >= 0 {
		if j := strings.Index(from[i:], ">"); j > 0 {
			return from[i+1 : i+j]
		}
	}

	return from
}
