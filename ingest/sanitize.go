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

package ingest

import (
	"regexp"
	"strings"
)

var unsafeFilenameRunes = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SanitizeFilename reduces an attacker-supplied attachment name to a safe
// path component: path separators are stripped, anything outside
// [A-Za-z0-9_.-] collapses to an underscore, and leading/trailing dots go
// so the result can never traverse or hide.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	name = unsafeFilenameRunes.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")

	if name == "" {
		return "attachment"
	}

	return name
}
