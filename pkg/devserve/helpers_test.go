// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package devserve

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/cactus/mlog"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/fs"
)

const (
	indexBody = "<!doctype html><h1>home</h1>\n"
	appBody   = "console.log('devserve');\n"
	subBody   = "<p>sub index</p>\n"
)

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newServedDir(t *testing.T) *fs.Dir {
	t.Helper()
	return fs.NewDir(t, "devserve",
		fs.WithFile("index.html", indexBody),
		fs.WithDir("js", fs.WithFile("app.js", appBody)),
		fs.WithDir("sub", fs.WithFile("index.html", subBody)),
		fs.WithDir("assets",
			fs.WithFile("a.txt", "a"),
			fs.WithFile("b.txt", "b"),
		),
	)
}

func newTestServer(t *testing.T, root string) (*Server, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	srv, err := New(Config{
		ServerName: "go-devserve",
		Root:       root,
		Host:       "127.0.0.1",
		Logger:     mlog.New(out, 0),
	}, nil)
	assert.NilError(t, err)
	return srv, out
}

func processRequest(srv *Server, method, path string, header http.Header) *http.Response {
	req := httptest.NewRequest(method, "http://localhost:8000"+path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	record := httptest.NewRecorder()
	srv.Handler().ServeHTTP(record, req)
	return record.Result()
}

func bodyAssert(t *testing.T, expected string, resp *http.Response) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	assert.Check(t, err)
	assert.Check(t, is.Equal(expected, string(body)))
}

func statusCodeAssert(t *testing.T, expected int, resp *http.Response) {
	t.Helper()
	assert.Check(t,
		is.Equal(expected, resp.StatusCode),
		"Expected %d but got '%d' instead",
		expected, resp.StatusCode,
	)
}

func noCacheAssert(t *testing.T, resp *http.Response) {
	t.Helper()
	assert.Check(t, is.Equal("no-cache, no-store, must-revalidate", resp.Header.Get("Cache-Control")))
	assert.Check(t, is.Equal("no-cache", resp.Header.Get("Pragma")))
	assert.Check(t, is.Equal("0", resp.Header.Get("Expires")))
}
