package cmd

import (
	"context"
	"fmt"
	"os"

	"timesheet-service/internal/config"
	"timesheet-service/internal/email"
	"timesheet-service/internal/export"
	"timesheet-service/internal/profile"
	"timesheet-service/internal/timesheet"

	"github.com/spf13/cobra"
)

var exportEmail string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all timesheet data as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		entries := timesheet.NewStore(provider)
		profiles := profile.NewStore(provider, entries)
		snapshot := export.Build(ctx, entries, profiles)

		data, err := snapshot.JSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building export: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))

		if exportEmail != "" {
			if config.Cfg.Email.Host == "" {
				fmt.Fprintln(os.Stderr, "No SMTP host configured")
				os.Exit(1)
			}
			mailer := email.NewClient(config.Cfg.Email)
			if err := snapshot.Email(mailer, exportEmail); err != nil {
				fmt.Fprintf(os.Stderr, "Error sending export: %v\n", err)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Export sent to %s\n", exportEmail)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportEmail, "email", "", "also email the export to this address")
}
