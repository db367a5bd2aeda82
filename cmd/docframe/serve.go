package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/fwojciec/docframe/fs"
	dfhttp "github.com/fwojciec/docframe/http"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := deps.Config.Port
	if c.Port != nil {
		port = *c.Port
	}

	_, _ = ensureIcons(ctx, deps, false)

	opts := []dfhttp.Option{
		dfhttp.WithAddr(":" + strconv.Itoa(port)),
		dfhttp.WithLogger(deps.Logger),
		dfhttp.WithStaticKeys(fs.StaticKey, frameStaticKey(deps.Paths)),
	}
	if deps.Listener != nil {
		opts = append(opts, dfhttp.WithListener(deps.Listener))
	}
	if deps.Metrics != nil {
		opts = append(opts, dfhttp.WithMetrics(deps.Metrics.Middleware, deps.Metrics.Handler()))
	}
	server := dfhttp.NewServer(deps.Config, deps.Documents, opts...)

	if err := server.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: cannot listen on port %d: %s\n", port, err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Serving %s at %s\n", deps.Config.AppName, ServerURL(server.Port()))
	deps.Logger.Info("server started", "url", server.URL())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case <-ctx.Done():
			deps.Logger.Info("shutting down")
			return server.Close()
		case err, ok := <-server.Err():
			if ok && err != nil {
				fmt.Fprintf(deps.Stderr, "error: server stopped: %s\n", err)
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		}
	})
	return g.Wait()
}

// ensureIcons brings the PWA icons in the static directory up to date.
// The logging decorator records failures; serve ignores them.
func ensureIcons(ctx context.Context, deps *Dependencies, force bool) (bool, error) {
	dir, _ := deps.Paths.Registered(fs.StaticKey)
	return deps.Icons.EnsureIcons(ctx, filepath.Join(dir, IconsDir), deps.Config.PWA, force)
}

func frameStaticKey(paths *fs.Paths) string {
	if _, ok := paths.Registered(fs.FrameStaticKey); ok {
		return fs.FrameStaticKey
	}
	return ""
}

// ServerURL returns the URL other machines on the network can most likely
// reach the server at: the outbound interface address, else the host name.
func ServerURL(port int) string {
	p := strconv.Itoa(port)

	// Dialing UDP sends nothing; it only selects the outbound interface.
	if conn, err := net.Dial("udp", "8.8.8.8:80"); err == nil {
		defer conn.Close()
		if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok && !addr.IP.IsUnspecified() {
			return "http://" + net.JoinHostPort(addr.IP.String(), p)
		}
	}

	if host, err := os.Hostname(); err == nil && host != "" {
		return "http://" + net.JoinHostPort(host, p)
	}
	return "http://" + net.JoinHostPort("localhost", p)
}
