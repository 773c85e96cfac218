package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var flags globalFlags

	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "specimenctl",
		Short:         "Manage SpecimenPro events and generate specimen QR codes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx.logOutput = cmd.ErrOrStderr()
			_, err := ctx.ensureConfig()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.document, "document", "d", "", "Event document path (overrides SPECIMEN_DOCUMENT)")
	rootCmd.PersistentFlags().StringVar(&flags.store, "store", "", "Document store: json or sqlite (overrides SPECIMEN_STORE)")
	rootCmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "Host encoded into QR URLs (overrides QR_BASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(newEventCommand(ctx))
	rootCmd.AddCommand(newSpecimenCommand(ctx))
	rootCmd.AddCommand(newBadgeCommand(ctx))
	rootCmd.AddCommand(newGenerateCommand(ctx))
	rootCmd.AddCommand(newRevisionsCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))

	return rootCmd
}
