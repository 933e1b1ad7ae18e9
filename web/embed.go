// Package web embeds the browser frontend.
package web

import (
	"embed"
	"io/fs"
)

//go:embed index.html assets
var staticFiles embed.FS

// StaticFS returns the frontend files rooted at the web directory.
func StaticFS() fs.FS {
	return staticFiles
}
