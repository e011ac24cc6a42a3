package utils

import (
	"mime"
	"path/filepath"
	"strings"
)

// ImageMIME resolves the image MIME type from the filename extension.
// Unknown or missing extensions default to JPEG, the dominant format in
// scanned document batches.
func ImageMIME(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "image/jpeg"
	}
	if t := mime.TypeByExtension(ext); strings.HasPrefix(t, "image/") {
		// TypeByExtension may append charset parameters; keep the bare type.
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = strings.TrimSpace(t[:i])
		}
		return t
	}
	return "image/jpeg"
}
