// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package router

import (
	"net/http"
)

// DumbRouter is a basic, special purpose, http router
type DumbRouter struct {
	ServerName  string
	FileHandler http.Handler
	AddHeaders  map[string]string
}

// SetHeaders sets the headers on the response
func (dr *DumbRouter) SetHeaders(w http.ResponseWriter) {
	h := w.Header()
	for k, v := range dr.AddHeaders {
		h.Set(k, v)
	}
	if dr.ServerName != "" {
		h.Set("Server", dr.ServerName)
	}
}

// ServeHTTP fulfills the http server interface
func (dr *DumbRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// set some default headers
	dr.SetHeaders(w)

	// the file handler may rewrite headers before sending an error, so set
	// them again right before the status line goes out.
	hw := &headerWriter{ResponseWriter: w, setHeaders: dr.SetHeaders}

	if r.Method != http.MethodHead && r.Method != http.MethodGet {
		hw.Header().Set("Allow", "GET, HEAD")
		http.Error(hw, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	dr.FileHandler.ServeHTTP(hw, r)
}
