package lhttp

import (
	"mime"
	"net/http"
	"path/filepath"
)

// InferContentType picks a MIME type for an uploaded artifact. Result files
// carry meaningful extensions (metrics documents, plot images), so the
// extension is tried first and content sniffing is the fallback.
func InferContentType(name string, content []byte) string {
	ctype := mime.TypeByExtension(filepath.Ext(name))
	if ctype == "" {
		ctype = http.DetectContentType(content)
	}
	return ctype
}
