package commands

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"creatorflow/internal/ics"
	appLog "creatorflow/internal/log"
)

func addExport(topLevel *cobra.Command, ro *rootOptions) {
	var (
		output string
		name   string
		feeds  bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the content calendar as an ICS file.",
		Example: `
creatorflow export -o plan.ics
creatorflow export --feeds > plan.ics
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ro.loadConfig()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			s, err := newSession(cfg, nil)
			if err != nil {
				return err
			}
			if feeds {
				importer, err := newImporter(cfg, loc)
				if err != nil {
					return err
				}
				if _, err := importer.Run(cmd.Context(), s); err != nil {
					appLog.Error("some feeds failed", err)
				}
			}

			body := ics.Export(s.Events(), name, loc, time.Now())
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write([]byte(body))
				return err
			}
			if err := os.WriteFile(output, []byte(body), 0o644); err != nil {
				return err
			}
			appLog.Info("calendar exported", "path", output, "events", len(s.Events()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")
	cmd.Flags().StringVar(&name, "name", "CreatorFlow", "Calendar name")
	cmd.Flags().BoolVar(&feeds, "feeds", false, "Import configured ICS feeds before exporting")
	topLevel.AddCommand(cmd)
}
