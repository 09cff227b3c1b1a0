// Package webassets holds the embedded dashboard served by the HTTP
// server and written out by the static export.
package webassets

import (
	"embed"
	"io/fs"
	"path"
)

//go:embed static
var static embed.FS

// FS returns the embedded asset tree with the static/ prefix stripped,
// so index.html sits at the root.
func FS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// The static directory is embedded at build time; a missing
		// subtree means a broken binary.
		panic(err)
	}
	return sub
}

// Read returns one embedded asset by root-relative path.
func Read(name string) ([]byte, bool) {
	data, err := fs.ReadFile(FS(), name)
	if err != nil {
		return nil, false
	}
	return data, true
}

// ContentType maps an asset path to its MIME type.
func ContentType(name string) string {
	switch path.Ext(name) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".json":
		return "application/json"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}
