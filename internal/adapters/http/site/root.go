// Package site serves the embedded arena frontend.
package site

import (
	"context"
	"errors"
	"net/http"
)

// Error constants
var (
	ErrServe = errors.New("arena site serve failed")
)

// Register attaches the embedded arena frontend routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	// Serve the embedded arena frontend at root /
	files := http.FileServer(FS())
	mux.Handle("/", files)
}
