// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package devserve

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cactus/mlog"
)

// DefaultPort is the port used when none is configured.
const DefaultPort = 8000

// NoCacheHeaders are set on every response so that browsers and proxies
// never reuse a stale copy of a served file.
var NoCacheHeaders = map[string]string{
	"Cache-Control": "no-cache, no-store, must-revalidate",
	"Pragma":        "no-cache",
	"Expires":       "0",
}

// Config holds configuration data used when creating a Server with New.
type Config struct {
	// Server name used in the Server response header
	ServerName string
	// Root is the directory whose contents are served
	Root string
	// Host to bind to. Empty binds all local interfaces.
	Host string
	// Port to bind to. 0 picks a free port.
	Port int
	// MaxConns caps concurrently open connections (0 is unlimited)
	MaxConns int
	// OpenBrowser opens the root url once listening
	OpenBrowser bool
	// MetricsAddr is the Address:Port for /metrics and /status. Empty
	// disables the metrics listener.
	MetricsAddr string
	// Watch logs changes to files under Root
	Watch bool
	// AddHeaders are extra headers returned on each response. They can not
	// override NoCacheHeaders.
	AddHeaders map[string]string
	// ShutdownTimeout bounds how long in-flight requests may run once
	// shutdown begins.
	ShutdownTimeout time.Duration
	// ReadHeaderTimeout for client requests
	ReadHeaderTimeout time.Duration
	// Logger for status lines and request logs. Defaults to the mlog
	// package logger.
	Logger *mlog.Logger
}

func (c *Config) validate() error {
	if c.Root == "" {
		return errors.New("root directory required")
	}
	fi, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("root directory inaccessible: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("root %s is not a directory", c.Root)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.MaxConns < 0 {
		return fmt.Errorf("invalid max-conns: %d", c.MaxConns)
	}
	return nil
}

// Addr returns the Address:Port the server binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ExecutableDir returns the directory containing the running executable,
// with symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("could not locate executable: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("could not resolve executable path: %w", err)
	}
	return filepath.Dir(exe), nil
}
