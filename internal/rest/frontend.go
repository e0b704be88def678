package rest

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// FrontendHandler serves the static frontend build. Unknown paths fall back to
// the index file so client-side routing keeps working after a refresh.
type FrontendHandler struct {
	root  string
	index string
}

func NewFrontendHandler(root string, index string) *FrontendHandler {
	return &FrontendHandler{root: root, index: index}
}

func (h *FrontendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.root, filepath.Clean("/"+strings.TrimPrefix(r.URL.Path, "/")))

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		http.ServeFile(w, r, filepath.Join(h.root, h.index))
		return
	}
	http.ServeFile(w, r, path)
}
