package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"

	"github.com/networkteam/shopcheck/demostore"
)

type demoCmd struct {
	gs *globalState

	addr          string
	guestCheckout bool
	idleTimeout   time.Duration
	maxSessions   int
	logFile       string

	// started is called with the listen address once the server accepts requests.
	started func(addr string)
}

func newDemoHandler(store *demostore.Server) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/", store)
	return mux
}

func (c *demoCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = c.gs.ctx
	}

	handlers := []slog.Handler{c.gs.logger.Handler()}
	if c.logFile != "" {
		f, err := c.gs.fs.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	logger := slog.New(slogmulti.Fanout(handlers...)).With("component", "demostore")

	store := demostore.NewServer(
		demostore.WithGuestCheckout(c.guestCheckout),
		demostore.WithSessionIdleTimeout(c.idleTimeout),
		demostore.WithMaxSessions(c.maxSessions),
		demostore.WithLogger(logger),
	)
	defer store.Close()

	ln, err := net.Listen("tcp", c.addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           newDemoHandler(store),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	addr := ln.Addr().String()
	printf(c.gs.stdout, "Demo store listening on %s\n", bannerColor.Sprint("http://"+addr))
	printf(c.gs.stdout, "Run the suite against it with SHOPCHECK_BASE_URL=http://%s\n", addr)
	if c.started != nil {
		c.started(addr)
	}

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down demo store")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func getCmdDemo(gs *globalState) *cobra.Command {
	c := &demoCmd{gs: gs}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Serve the built in demo storefront",
		Long: `Serve the built in demo storefront.

  The demo store mimics the OpenCart pages the scenarios use. It keeps
  customers, carts and orders in memory until it is stopped.`,
		Example: `
  # Serve on port 8080 and run the suite against it
  shopcheck demo --addr :8080`[1:],
		Args: cobra.NoArgs,
		RunE: c.run,
	}
	cmd.Flags().StringVar(&c.addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&c.guestCheckout, "guest-checkout", true, "allow checkout without an account")
	cmd.Flags().DurationVar(&c.idleTimeout, "session-idle-timeout", 30*time.Minute, "lifetime of idle visitor sessions")
	cmd.Flags().StringVar(&c.logFile, "log-file", "", "also write debug logs as JSON lines to this file")
	cmd.Flags().IntVar(&c.maxSessions, "max-sessions", 0, "maximum number of visitor sessions (0 = unlimited)")
	return cmd
}
