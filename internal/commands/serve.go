package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"creatorflow/internal/config"
	"creatorflow/internal/ics"
	appLog "creatorflow/internal/log"
	"creatorflow/internal/web"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	listen  string
	noWatch bool
	noFeeds bool
}

func addServe(topLevel *cobra.Command, ro *rootOptions) {
	so := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the calendar dashboard and API.",
		Example: `
creatorflow serve
creatorflow serve --listen 0.0.0.0:9000 --config /etc/creatorflow/config.yaml
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ro.loadConfig()
			if err != nil {
				return err
			}
			if so.listen != "" {
				cfg.Listen = so.listen
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, ro.configPath, cfg, so)
		},
	}
	cmd.Flags().StringVar(&so.listen, "listen", "", "HTTP listen address (overrides config if set)")
	cmd.Flags().BoolVar(&so.noWatch, "no-watch", false, "Do not reload feeds when the config file changes")
	cmd.Flags().BoolVar(&so.noFeeds, "no-feeds", false, "Do not import ICS feeds")
	topLevel.AddCommand(cmd)
}

func serve(ctx context.Context, configPath string, cfg *config.Config, so *serveOptions) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	notifier, err := newNotifier(cfg)
	if err != nil {
		return err
	}
	session, err := newSession(cfg, notifier)
	if err != nil {
		return err
	}
	svc, err := newAI(ctx, cfg)
	if err != nil {
		return err
	}

	srv := web.NewServer(web.Options{
		Session:     session,
		AI:          svc,
		PreviewPath: cfg.Snapshot.Output,
	})
	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	appLog.Info("creatorflow starting",
		"listen", cfg.Listen,
		"timezone", loc.String(),
		"feeds", len(cfg.Feeds),
		"refresh", cfg.RefreshCron,
		"ai", svc.Available(),
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLog.Info("http server listening", "addr", cfg.Listen)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		appLog.Info("shutting down http server")
		return httpSrv.Shutdown(shutdownCtx)
	})

	if !so.noFeeds {
		importer, err := newImporter(cfg, loc)
		if err != nil {
			return err
		}
		refresher, err := ics.NewRefresher(cfg.RefreshCron, loc, importer, srv)
		if err != nil {
			return err
		}
		g.Go(func() error {
			refresher.Start(ctx)
			<-ctx.Done()
			refresher.Stop()
			return nil
		})
		if !so.noWatch {
			g.Go(func() error {
				return config.Watch(ctx, configPath, func(next *config.Config) {
					subs, err := subscriptions(next.Feeds)
					if err != nil {
						appLog.Error("ignoring reloaded feeds", err)
						return
					}
					importer.SetSubscriptions(subs)
					refresher.RunOnce(ctx)
				})
			})
		}
	}

	err = g.Wait()
	appLog.Info("creatorflow exiting")
	return err
}
