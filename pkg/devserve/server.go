// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package devserve provides a local development HTTP server that serves
// static files with client side caching disabled.
package devserve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cactus/go-devserve/pkg/dirtree"
	"github.com/cactus/go-devserve/pkg/router"
	"github.com/cactus/go-devserve/pkg/stats"
	"github.com/cactus/go-devserve/pkg/watch"

	"github.com/cactus/mlog"
	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/net/netutil"
)

const defaultShutdownTimeout = 5 * time.Second

// A Server serves the files below a root directory.
type Server struct {
	config  *Config
	opener  Opener
	log     *mlog.Logger
	stats   *stats.ServeStats
	handler http.Handler
}

// New returns a new Server. A nil opener disables opening a browser.
func New(config Config, opener Opener) (*Server, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = defaultShutdownTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = mlog.DefaultLogger
	}

	addHeaders := make(map[string]string, len(config.AddHeaders)+len(NoCacheHeaders))
	for k, v := range config.AddHeaders {
		addHeaders[k] = v
	}
	for k, v := range NoCacheHeaders {
		addHeaders[k] = v
	}

	s := &Server{
		config: &config,
		opener: opener,
		log:    logger,
		stats:  &stats.ServeStats{},
	}

	dumbrouter := &router.DumbRouter{
		ServerName:  config.ServerName,
		AddHeaders:  addHeaders,
		FileHandler: http.FileServer(http.Dir(config.Root)),
	}
	s.handler = s.instrument(dumbrouter)
	return s, nil
}

// Handler returns the handler serving the root directory.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Stats returns the running request counters.
func (s *Server) Stats() *stats.ServeStats {
	return s.stats
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.stats.AddServed()
		s.stats.AddBytes(rec.bytes)
		observeResponse(r.Method, rec.status, rec.bytes)

		if s.log.HasDebug() {
			s.log.Debugm("client request", mlog.Map{
				"req":    httpReqToMlogMap(r),
				"status": rec.status,
				"bytes":  rec.bytes,
			})
		}
	})
}

// Listen binds the configured address.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return nil, fmt.Errorf("could not bind %s: %w", s.config.Addr(), err)
	}
	if s.config.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.config.MaxConns)
	}
	return ln, nil
}

// URL returns the url a local browser reaches the root of ln with.
func (s *Server) URL(ln net.Listener) string {
	port := s.config.Port
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}
	return fmt.Sprintf("http://localhost:%d/", port)
}

// Run binds the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. Cancellation is the normal way to stop and returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	var (
		metricsSrv *http.Server
		mln        net.Listener
	)
	if s.config.MetricsAddr != "" {
		var err error
		mln, err = net.Listen("tcp", s.config.MetricsAddr)
		if err != nil {
			// #nosec
			ln.Close()
			return fmt.Errorf("could not bind metrics %s: %w", s.config.MetricsAddr, err)
		}
		metricsSrv = &http.Server{
			Handler:           s.metricsMux(),
			ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		}
	}

	u := s.URL(ln)
	s.log.Printf("Server started at %s", u)
	s.log.Debugm("serving", mlog.Map{"root": s.config.Root, "addr": ln.Addr().String()})
	if s.log.HasDebug() {
		if tree, err := dirtree.Render(s.config.Root, 2); err == nil {
			s.log.Debugf("served tree:\n%s", tree)
		}
	}

	if s.config.OpenBrowser && s.opener != nil {
		s.log.Printf("Opening browser automatically...")
		go func() {
			if err := s.opener.Open(u); err != nil {
				s.log.Debugm("could not open browser", mlog.Map{"url": u, "err": err})
			}
		}()
	}
	s.log.Printf("Press Ctrl+C to stop the server")

	if s.config.Watch {
		s.startWatch(ctx)
	}

	serveErr := make(chan error, 2)
	go func() {
		serveErr <- srv.Serve(ln)
	}()
	if metricsSrv != nil {
		s.log.Printf("Enabling metrics at http://%s/metrics", mln.Addr())
		go func() {
			serveErr <- metricsSrv.Serve(mln)
		}()
	}
	s.sdNotify(daemon.SdNotifyReady)

	select {
	case err := <-serveErr:
		// #nosec
		srv.Close()
		if metricsSrv != nil {
			// #nosec
			metricsSrv.Close()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Printf("Shutting down server...")
	s.sdNotify(daemon.SdNotifyStopping)

	sctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if metricsSrv != nil {
		// #nosec
		metricsSrv.Close()
	}
	if err := srv.Shutdown(sctx); err != nil {
		// abandon whatever is still in flight
		s.log.Debugm("shutdown incomplete", mlog.Map{"err": err})
		// #nosec
		srv.Close()
	}
	s.log.Printf("Server stopped")
	return nil
}

func (s *Server) metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsHandler())
	mux.Handle("/status", stats.Handler(s.stats))
	mux.HandleFunc("/_health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (s *Server) startWatch(ctx context.Context) {
	w, err := watch.New(s.config.Root)
	if err != nil {
		s.log.Printf("file watching disabled: %s", err)
		return
	}
	s.log.Printf("Watching %s for changes", s.config.Root)
	go func() {
		err := w.Run(ctx, func(path, op string) {
			s.log.Infom("file changed", mlog.Map{"path": path, "op": op})
		})
		if err != nil {
			s.log.Debugm("watch stopped", mlog.Map{"err": err})
		}
	}()
}
