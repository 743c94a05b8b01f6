package http

import (
	"mime"
	"strings"

	"github.com/freekieb7/fileresponder/filesystem"
)

const DefaultMimeType = "application/octet-stream"

// Streaming types are checked first, the system table does not know most of them.
var streamingMimeTypes = map[string]string{
	".m3u8": "application/vnd.apple.mpegurl",
	".m3u":  "audio/mpegurl",
	".ts":   "video/mp2t",
	".m4s":  "video/iso.segment",
	".mpd":  "application/dash+xml",
	".aac":  "audio/aac",
	".vtt":  "text/vtt",
}

// MimeType returns the content type for fileName by extension.
func MimeType(fileName string) string {
	ext := strings.ToLower(filesystem.Extension(fileName))
	if ext == "" {
		return DefaultMimeType
	}

	if mimeType, ok := streamingMimeTypes[ext]; ok {
		return mimeType
	}
	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType
	}
	return DefaultMimeType
}
