// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package router

import (
	"io"
	"net/http"
)

// headerWriter re-applies a header set when the status line is written.
type headerWriter struct {
	http.ResponseWriter
	setHeaders  func(http.ResponseWriter)
	wroteHeader bool
}

func (hw *headerWriter) WriteHeader(code int) {
	if !hw.wroteHeader {
		hw.setHeaders(hw.ResponseWriter)
		// informational responses may be followed by another status
		if code >= http.StatusOK {
			hw.wroteHeader = true
		}
	}
	hw.ResponseWriter.WriteHeader(code)
}

func (hw *headerWriter) Write(b []byte) (int, error) {
	if !hw.wroteHeader {
		hw.WriteHeader(http.StatusOK)
	}
	return hw.ResponseWriter.Write(b)
}

// ReadFrom keeps the sendfile path of the underlying writer available.
func (hw *headerWriter) ReadFrom(src io.Reader) (int64, error) {
	if !hw.wroteHeader {
		hw.WriteHeader(http.StatusOK)
	}
	return io.Copy(hw.ResponseWriter, src)
}

// Unwrap is used by http.ResponseController.
func (hw *headerWriter) Unwrap() http.ResponseWriter {
	return hw.ResponseWriter
}
