package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/debloat/pkg/adapters/http"
	"github.com/aretw0/debloat/pkg/adapters/mcp"
	"golang.org/x/sync/errgroup"
)

// ServeOptions selects the listeners of the serve command.
type ServeOptions struct {
	Addr string
	// MCPPort enables the MCP SSE transport when positive.
	MCPPort int
}

// Serve runs the HTTP API, the optional MCP SSE server and the catalog watcher
// until ctx is done or one of them fails.
func Serve(ctx context.Context, st *Stack, opts ServeOptions) error {
	g, ctx := errgroup.WithContext(ctx)

	handler := httpAdapter.NewHandler(st.Engine,
		httpAdapter.WithBroadcaster(st.Broadcaster),
		httpAdapter.WithMetrics(st.Metrics),
		httpAdapter.WithLogger(st.Logger),
	)
	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		st.Logger.Info("HTTP server listening", "address", opts.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		st.Logger.Info("Stopping HTTP server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			st.Logger.Warn("Graceful shutdown did not complete", "err", err)
			return srv.Close()
		}
		return nil
	})

	if opts.MCPPort > 0 {
		g.Go(func() error {
			return mcp.NewServer(st.Engine, mcp.WithLogger(st.Logger)).ServeSSE(ctx, opts.MCPPort)
		})
	}

	if st.Watcher != nil {
		g.Go(func() error {
			return st.Watcher.Watch(ctx)
		})
	}

	return g.Wait()
}
