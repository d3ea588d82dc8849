package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/picture-gallery/internal/app"
	"github.com/templui/picture-gallery/internal/config"
	"github.com/templui/picture-gallery/internal/service"
)

func SweepCmd() *cobra.Command {
	var opts service.SweepOptions

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete orphaned images and expired sessions",
		Long: "Deletes stored images no picture references once they are older than --grace,\n" +
			"then removes expired sessions and verifications.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), config.Load())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.SweepService.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.DryRun {
				fmt.Fprintln(out, "dry run, nothing deleted")
			}
			fmt.Fprintf(out, "blobs scanned:          %d\n", report.Scanned)
			fmt.Fprintf(out, "orphaned:               %d\n", report.Orphaned)
			fmt.Fprintf(out, "deleted:                %d\n", report.Deleted)
			fmt.Fprintf(out, "failed:                 %d\n", report.Failed)
			fmt.Fprintf(out, "expired sessions:       %d\n", report.ExpiredSessions)
			fmt.Fprintf(out, "expired verifications:  %d\n", report.ExpiredVerifications)

			if report.Failed > 0 {
				return fmt.Errorf("%d orphaned blobs could not be deleted", report.Failed)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&opts.Grace, "grace", service.DefaultSweepGrace, "only delete orphans older than this")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report without deleting")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 8, "parallel blob deletions")
	return cmd
}
