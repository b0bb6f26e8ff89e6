// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package devserve

import (
	"io"

	"github.com/pkg/browser"
)

// An Opener shows a url to the user.
type Opener interface {
	Open(url string) error
}

// The OpenerFunc type is an adapter to allow the use of ordinary functions
// as an Opener.
type OpenerFunc func(url string) error

// Open calls f(url).
func (f OpenerFunc) Open(url string) error {
	return f(url)
}

// SystemBrowser returns an Opener using the host's default browser. Output
// of the helper program (xdg-open, open, rundll32) is written to out.
func SystemBrowser(out io.Writer) Opener {
	browser.Stdout = out
	browser.Stderr = out
	return OpenerFunc(browser.OpenURL)
}
