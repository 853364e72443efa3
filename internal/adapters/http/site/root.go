// Package site serves the embedded student signup page.
package site

import (
	"context"
	"net/http"
)

// Register attaches the signup page routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	// Serve the embedded page assets under /static/
	files := http.StripPrefix("/static/", http.FileServer(FS()))
	mux.Handle("/static/", files)

	// http.FileServer answers ".../index.html" with a canonicalizing 301;
	// the root redirect points straight at the page, so serve it explicitly.
	mux.HandleFunc("/static/index.html", serveIndex)

	mux.HandleFunc("/", NewRootHandler().HandleRoot)
}

// serveIndex writes the embedded signup page without the index redirect.
func serveIndex(w http.ResponseWriter, r *http.Request) {
	f, err := FS().Open("index.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, "index.html", stat.ModTime(), f)
}

// RootHandler redirects the bare root to the signup page.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests. The root pattern also catches every
// path no other route claims, so anything but the bare root is a 404.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
}
