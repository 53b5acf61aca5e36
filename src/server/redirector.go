package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// NewRedirector returns a plain HTTP server that permanently redirects
// every request to the same path and query under target. It covers the
// old frontend port after a deployment moves the app.
func NewRedirector(bind string, port int, target string) *http.Server {
	target = strings.TrimSuffix(target, "/")

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target+r.URL.RequestURI(), http.StatusMovedPermanently)
	})

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", bind, port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}
