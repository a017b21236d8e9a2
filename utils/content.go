package utils

import (
	"net/http"
	"strings"
)

// sniffLen is the number of leading bytes inspected by http.DetectContentType.
const sniffLen = 512

// DetectContentType detects the MIME type of a buffer by inspecting its first bytes.
// It always returns a valid content-type and "application/octet-stream" if no others seemed to match.
func DetectContentType(buf []byte) string {
	if len(buf) > sniffLen {
		buf = buf[:sniffLen]
	}
	return http.DetectContentType(buf)
}

// IsImage reports whether the sniffed content type of buf is an image type.
func IsImage(buf []byte) bool {
	return strings.HasPrefix(DetectContentType(buf), "image/")
}
