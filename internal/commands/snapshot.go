package commands

import (
	"github.com/spf13/cobra"

	"creatorflow/internal/capture"
)

func addSnapshot(topLevel *cobra.Command, ro *rootOptions) {
	opts := capture.Options{}
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture the /calendar page of a running server as PNG.",
		Example: `
creatorflow snapshot
creatorflow snapshot --url "http://127.0.0.1:8080/calendar?month=2024-05" -o may.png
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ro.loadConfig()
			if err != nil {
				return err
			}
			if opts.URL == "" {
				opts.URL = "http://" + cfg.Listen + "/calendar"
			}
			if opts.OutputPath == "" {
				opts.OutputPath = cfg.Snapshot.Output
			}
			if opts.Width == 0 {
				opts.Width = cfg.Snapshot.Width
			}
			if opts.Height == 0 {
				opts.Height = cfg.Snapshot.Height
			}
			return capture.Snapshot(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.URL, "url", "", "Page to capture (default: the configured listen address)")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "PNG path (default: snapshot.output)")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "Viewport width")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "Viewport height")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", capture.DefaultTimeout, "Capture timeout")
	cmd.Flags().BoolVar(&opts.NoSandbox, "no-sandbox", false, "Disable the Chromium sandbox")
	topLevel.AddCommand(cmd)
}
