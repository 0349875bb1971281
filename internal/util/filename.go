package util

import (
	"path/filepath"
	"strings"
)

// SanitizeFilename strips path separators and anything outside a conservative
// character set from an uploaded filename, so it can be stored under the
// static image directory without traversal tricks.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	out := strings.Trim(b.String(), "._-")
	return out
}
