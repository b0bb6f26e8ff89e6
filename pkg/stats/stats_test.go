// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package stats

import (
	"io"
	"net/http/httptest"
	"runtime"
	"sync"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestConcurrentUpdate(t *testing.T) {
	t.Parallel()
	ss := &ServeStats{}
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := 0; v < 10000; v++ {
				ss.AddServed()
				ss.AddBytes(1024)
				runtime.Gosched()
			}
		}()
	}

	wg.Wait()
	c, b := ss.GetStats()
	assert.Check(t, is.Equal(1000000, int(c)), "unexpected client count")
	assert.Check(t, is.Equal(1024000000, int(b)), "unexpected bytes count")
}

func TestAddBytesIgnoresNonPositive(t *testing.T) {
	t.Parallel()
	ss := &ServeStats{}
	ss.AddBytes(0)
	ss.AddBytes(-10)
	_, b := ss.GetStats()
	assert.Check(t, is.Equal(uint64(0), b))
}

func TestHandlerFormats(t *testing.T) {
	t.Parallel()
	ss := &ServeStats{}
	ss.AddServed()
	ss.AddBytes(42)

	record := httptest.NewRecorder()
	Handler(ss)(record, httptest.NewRequest("GET", "/status", nil))
	body, err := io.ReadAll(record.Result().Body)
	assert.NilError(t, err)
	assert.Check(t, is.Equal("ClientsServed, BytesServed\n1, 42\n", string(body)))

	record = httptest.NewRecorder()
	Handler(ss)(record, httptest.NewRequest("GET", "/status?format=json", nil))
	resp := record.Result()
	body, err = io.ReadAll(resp.Body)
	assert.NilError(t, err)
	assert.Check(t, is.Equal("{\"ClientsServed\": 1, \"BytesServed\": 42}\n", string(body)))
	assert.Check(t, is.Equal("application/json; charset=utf-8", resp.Header.Get("Content-Type")))
}
