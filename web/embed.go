// Package web embeds the dashboard page and serves it for every non-API path.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

//go:embed all:dist
var distFS embed.FS

// SPAHandler serves files from dist/. Unknown paths get index.html
// so the dashboard can own its client-side routes.
func SPAHandler() http.Handler {
	page, err := fs.Sub(distFS, "dist")
	if err != nil {
		panic("web: dist is not embedded: " + err.Error())
	}
	files := http.FileServer(http.FS(page))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name == "" || name == "index.html" || !exists(page, name) {
			// The page embeds no build hash, so browsers must revalidate it.
			w.Header().Set("Cache-Control", "no-cache")
			r.URL.Path = "/"
		}
		files.ServeHTTP(w, r)
	})
}

func exists(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && !info.IsDir()
}
