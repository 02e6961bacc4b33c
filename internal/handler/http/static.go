package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	landingPage = "landing.html"
	appPage     = "app.html"
)

// StaticHandler serves the frontend directory.
//
//	GET /      -> landing.html
//	GET /app   -> app.html
//	GET /app/  -> 301 /app
//
// Any other path is served from Dir when it names a regular file, and falls back to
// landing.html otherwise.
type StaticHandler struct {
	Dir string
}

// NewStaticHandler returns a handler rooted at dir ("./frontend" when empty).
func NewStaticHandler(dir string) *StaticHandler {
	if dir == "" {
		dir = "./frontend"
	}
	return &StaticHandler{Dir: dir}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/", "/index.html":
		h.serveFile(w, r, landingPage)
		return
	case "/app":
		h.serveFile(w, r, appPage)
		return
	case "/app/":
		http.Redirect(w, r, "/app", http.StatusMovedPermanently)
		return
	}

	name := path.Clean("/" + r.URL.Path)
	if h.isFile(name) {
		h.serveFile(w, r, name)
		return
	}
	h.serveFile(w, r, landingPage)
}

func (h *StaticHandler) isFile(name string) bool {
	info, err := os.Stat(h.resolve(name))
	return err == nil && info.Mode().IsRegular()
}

// resolve maps a cleaned URL path onto Dir. Dotfiles are never served.
func (h *StaticHandler) resolve(name string) string {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return ""
		}
	}
	return filepath.Join(h.Dir, filepath.FromSlash(strings.TrimPrefix(name, "/")))
}

func (h *StaticHandler) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	full := h.resolve(name)
	f, err := os.Open(full)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}
	if strings.HasSuffix(name, ".html") {
		w.Header().Set("Cache-Control", "no-cache")
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
