// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// go-devserve local development server
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/cactus/go-devserve/pkg/devserve"

	"github.com/alecthomas/kong"
	"github.com/cactus/mlog"
	"github.com/prometheus/common/version"
	"go.uber.org/automaxprocs/maxprocs"
)

var (
	// ServerName holds the server name string
	ServerName = "go-devserve"
	// ServerVersion holds the server version string
	ServerVersion = "no-version"
)

// CLI holds the command line options
type CLI struct {
	Version         int           `name:"version" short:"V" type:"counter" help:"Print version and exit; specify twice to show license information"`
	AddHeaders      []string      `name:"header" short:"H" help:"Extra header to return for each response. This option can be used multiple times to add multiple headers"`
	Port            int           `name:"port" short:"p" default:"${port}" env:"DEVSERVE_PORT" help:"Port to bind to for HTTP"`
	BindAddress     string        `name:"listen" default:"" env:"DEVSERVE_HOST" help:"Address to bind to for HTTP. Empty binds all interfaces"`
	Root            string        `name:"root" env:"DEVSERVE_ROOT" help:"Directory to serve. Defaults to the directory containing this program"`
	NoBrowser       bool          `name:"no-browser" help:"Do not open a browser on startup"`
	MaxConns        int           `name:"max-conns" default:"0" help:"Maximum number of concurrent connections. 0 for no limit"`
	MetricsAddress  string        `name:"metrics-listen" help:"Address:Port to expose /metrics and /status on"`
	Watch           bool          `name:"watch" help:"Log changes to files under the served directory"`
	ShutdownTimeout time.Duration `name:"shutdown-timeout" default:"5s" help:"Time allowed for in-flight requests on shutdown"`
	NoLogTS         bool          `name:"no-log-ts" help:"Do not add a timestamp to logging"`
	Verbose         bool          `name:"verbose" short:"v" help:"Show verbose (debug) log level output"`
}

func parseHeaders(headers []string) map[string]string {
	addHeaders := make(map[string]string, len(headers))
	for _, v := range headers {
		s := strings.SplitN(v, ":", 2)
		if len(s) != 2 {
			mlog.Printf("ignoring bad header: '%s'", v)
			continue
		}

		s0 := strings.TrimSpace(s[0])
		s1 := strings.TrimSpace(s[1])

		if len(s0) == 0 || len(s1) == 0 {
			mlog.Printf("ignoring bad header: '%s'", v)
			continue
		}
		addHeaders[s0] = s1
	}
	return addHeaders
}

func resolveRoot(root string) (string, error) {
	if root == "" {
		return devserve.ExecutableDir()
	}
	return filepath.Abs(root)
}

func main() {
	if version.Version == "" {
		version.Version = ServerVersion
	}

	// start out with a very bare logger that only prints
	// the message (no special format or log elements)
	mlog.SetFlags(0)

	cli := CLI{}
	_ = kong.Parse(&cli,
		kong.Name(ServerName),
		kong.Description("A local development static file server with caching disabled"),
		kong.UsageOnError(),
		kong.Vars{"port": fmt.Sprint(devserve.DefaultPort)},
	)

	if cli.Version > 0 {
		fmt.Printf("%s %s (%s,%s-%s)\n", ServerName, version.Version, runtime.Version(), runtime.Compiler, runtime.GOARCH)
		if cli.Version > 1 {
			fmt.Printf("\n%s\n", strings.TrimSpace(licenseText))
		}
		os.Exit(0)
	}

	// now configure a standard logger
	mlog.SetFlags(mlog.Lstd)
	if cli.NoLogTS {
		mlog.SetFlags(mlog.Flags() ^ mlog.Ltimestamp)
	}

	if cli.Verbose {
		mlog.SetFlags(mlog.Flags() | mlog.Ldebug)
		mlog.Debug("debug logging enabled")
	}

	if _, err := maxprocs.Set(maxprocs.Logger(mlog.Debugf)); err != nil {
		mlog.Debugm("could not set GOMAXPROCS", mlog.Map{"err": err})
	}

	root, err := resolveRoot(cli.Root)
	if err != nil {
		mlog.Fatal("Could not determine root directory: ", err)
	}
	// relative lookups resolve against the served root
	if err := os.Chdir(root); err != nil {
		mlog.Fatal("Could not change to root directory: ", err)
	}

	browserOut := io.Discard
	if cli.Verbose {
		browserOut = os.Stderr
	}

	config := devserve.Config{
		ServerName:      ServerName,
		Root:            root,
		Host:            cli.BindAddress,
		Port:            cli.Port,
		MaxConns:        cli.MaxConns,
		OpenBrowser:     !cli.NoBrowser,
		MetricsAddr:     cli.MetricsAddress,
		Watch:           cli.Watch,
		AddHeaders:      parseHeaders(cli.AddHeaders),
		ShutdownTimeout: cli.ShutdownTimeout,
	}

	srv, err := devserve.New(config, devserve.SystemBrowser(browserOut))
	if err != nil {
		mlog.Fatal("Error creating server: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		stop()
		mlog.Fatal(err)
	}
}
