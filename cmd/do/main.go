package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/templui/picture-gallery/cmd/do/cmd"
	"github.com/templui/picture-gallery/internal/logger"
)

func main() {
	flush := logger.Init(logger.Options{Development: true})
	defer flush()

	rootCmd := &cobra.Command{
		Use:          "do",
		Short:        "Maintenance tools for picture-gallery",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.SweepCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		flush()
		os.Exit(1)
	}
}
