package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"timesheet-service/internal/timecalc"
	"timesheet-service/internal/timesheet"

	"github.com/spf13/cobra"
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Manage timesheet entries",
	Long:  `List and delete completed timesheet entries.`,
}

var entriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all completed entries",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store := timesheet.NewStore(provider)
		entries := store.AllEntries(ctx)

		if len(entries) == 0 {
			fmt.Println("No entries found.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tCLIENT\tDURATION")
		for _, entry := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", entry.ID, entry.Date, entry.ClientName, timecalc.FormatMinutes(entry.Duration))
		}
		w.Flush()
	},
}

var entriesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an entry by ID",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store := timesheet.NewStore(provider)

		if err := store.DeleteEntry(ctx, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting entry: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Entry %s deleted.\n", args[0])
	},
}

var entriesStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the in-progress shift, if any",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store := timesheet.NewStore(provider)

		current := store.CurrentEntry(ctx)
		if current == nil {
			fmt.Println("Not clocked in.")
			return
		}
		fmt.Printf("Clocked in since %s", current.ClockIn.Format("15:04"))
		if current.ClientName != "" {
			fmt.Printf(" at %s", current.ClientName)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(entriesCmd)
	entriesCmd.AddCommand(entriesListCmd)
	entriesCmd.AddCommand(entriesDeleteCmd)
	entriesCmd.AddCommand(entriesStatusCmd)
}
