package static

import (
	"embed"
	"net/http"
)

//go:embed app.css app.js
var assets embed.FS

// FileSystem serves the bundled stylesheet and script.
func FileSystem() http.FileSystem {
	return http.FS(assets)
}
