// Package commands wires the creatorflow CLI.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"creatorflow/internal/ai"
	"creatorflow/internal/calendar"
	"creatorflow/internal/config"
	"creatorflow/internal/ics"
	appLog "creatorflow/internal/log"
	"creatorflow/internal/model"
	"creatorflow/internal/notify"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "creatorflow.yaml"

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	debug      bool
}

// New builds the root command.
func New() *cobra.Command {
	ro := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "creatorflow",
		Short:         "Plan, schedule and generate social media content.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if ro.debug {
				appLog.SetLevel(appLog.LevelDebug)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVarP(&ro.configPath, "config", "c", DefaultConfigPath, "Path to config file")
	cmd.PersistentFlags().BoolVar(&ro.debug, "debug", false, "Enable debug logging")

	addServe(cmd, ro)
	addCalendar(cmd, ro)
	addEvents(cmd, ro)
	addTUI(cmd, ro)
	addExport(cmd, ro)
	addSnapshot(cmd, ro)
	addGenerate(cmd, ro)
	addAnalytics(cmd)
	addVersion(cmd)
	return cmd
}

// loadConfig reads the file and applies the environment overlay.
func (ro *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(ro.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", ro.configPath, err)
	}
	cfg.ApplyEnv(nil)
	return cfg, nil
}

// newSession builds the calendar state described by cfg.
func newSession(cfg *config.Config, notifier calendar.Notifier) (*calendar.Session, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	opts := calendar.Options{Location: loc, Notifier: notifier}
	if cfg.SeedDemo {
		opts.Seed = calendar.DemoEvents()
		opts.Start = calendar.DemoMonth
	}
	year, month, ok, err := cfg.Start()
	if err != nil {
		return nil, err
	}
	if ok {
		opts.Start = calendar.Month{Year: year, Month: month}
	}
	return calendar.NewSession(opts), nil
}

// newNotifier returns the configured notifier, or nil for "none".
func newNotifier(cfg *config.Config) (calendar.Notifier, error) {
	c, err := notify.ForBackend(cfg.Notifications.Backend, cfg.Notifications.AppName)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	return notify.New(c), nil
}

// newAI returns a Service. Without a key the service reports
// ai.ErrMissingAPIKey on every call.
func newAI(ctx context.Context, cfg *config.Config) (*ai.Service, error) {
	if cfg.Gemini.APIKey == "" {
		appLog.Info("no Gemini API key configured; generators disabled")
		return ai.NewService(nil, cfg.Gemini.Timeout), nil
	}
	g, err := ai.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}
	return ai.NewService(g, cfg.Gemini.Timeout), nil
}

// subscriptions converts the configured feeds.
func subscriptions(feeds []config.FeedConfig) ([]ics.Subscription, error) {
	out := make([]ics.Subscription, 0, len(feeds))
	for _, f := range feeds {
		if f.URL == "" {
			return nil, fmt.Errorf("feed %q: url is required", f.ID)
		}
		p, err := model.ParsePlatform(f.Platform)
		if err != nil {
			return nil, fmt.Errorf("feed %q: %w", f.ID, err)
		}
		st, err := model.ParseStatus(f.Status)
		if err != nil {
			return nil, fmt.Errorf("feed %q: %w", f.ID, err)
		}
		out = append(out, ics.Subscription{
			Feed:     ics.Feed{ID: f.ID, URL: f.URL},
			Name:     f.Name,
			Platform: p,
			Status:   st,
		})
	}
	return out, nil
}

// newImporter builds the feed importer for cfg.
func newImporter(cfg *config.Config, loc *time.Location) (*ics.Importer, error) {
	subs, err := subscriptions(cfg.Feeds)
	if err != nil {
		return nil, err
	}
	horizon := time.Duration(cfg.HorizonDays) * 24 * time.Hour
	return ics.NewImporter(ics.NewFetcher(cfg.CacheDir), subs, loc, horizon), nil
}
