package commands

import (
	"github.com/spf13/cobra"

	"creatorflow/internal/tui"
)

func addTUI(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse and reschedule posts in the terminal.",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := ro.loadConfig()
			if err != nil {
				return err
			}
			notifier, err := newNotifier(cfg)
			if err != nil {
				return err
			}
			s, err := newSession(cfg, notifier)
			if err != nil {
				return err
			}
			return tui.Run(s)
		},
	}
	topLevel.AddCommand(cmd)
}
