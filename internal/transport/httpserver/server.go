package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/orgball2608/insta-stories-viewer/internal/media"
	"github.com/orgball2608/insta-stories-viewer/internal/viewer"
	"github.com/orgball2608/insta-stories-viewer/pkg/config"
	"github.com/orgball2608/insta-stories-viewer/pkg/logger"
	"go.uber.org/fx"
)

const shutdownTimeout = 10 * time.Second

type Opts struct {
	fx.In

	LC     fx.Lifecycle
	Config *config.Config
	Logger logger.Logger
	Viewer *viewer.Service
	Cache  media.Cache `optional:"true"`
}

type Server struct {
	srv    *http.Server
	logger logger.Logger
}

// New builds the HTTP server and binds it to the app lifecycle. The listener is
// opened in the start hook so a busy port fails startup.
func New(opts Opts) *Server {
	log := opts.Logger.WithComponent("HTTP")
	h := NewHandler(opts.Viewer, opts.Cache, log)

	s := &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Config.App.Port),
			Handler:           h.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: log,
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", s.srv.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
			}
			s.logger.Info("Starting server", "addr", ln.Addr().String())
			go func() {
				if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.logger.Error("Server stopped unexpectedly", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			s.logger.Info("Stopping server")
			return s.srv.Shutdown(ctx)
		},
	})
	return s
}
