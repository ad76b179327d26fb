package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/PabloGalante/datagent/internal/adapters/http"
	"github.com/PabloGalante/datagent/internal/app/conversation"
	"github.com/PabloGalante/datagent/internal/observability"
)

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat API over HTTP and WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(false)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Addr()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, closeStore, err := buildStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			svc, err := conversation.NewService(buildResponder(ctx, cfg), store, cfg.SessionCacheSize)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           httpadapter.NewServer(svc),
				ReadHeaderTimeout: 10 * time.Second,
			}

			log := observability.WithFields("addr", addr, "backend", cfg.LLMBackend)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info("datagent API listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				log.Info("shutting down")
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to :$DATAGENT_PORT)")
	return cmd
}
