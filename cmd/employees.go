package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"timesheet-service/internal/config"
	"timesheet-service/internal/directory"

	"github.com/spf13/cobra"
)

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "Manage the employee directory",
	Long:  `List employees from the directory file and display their roles.`,
}

var employeesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all employees with their roles",
	Run: func(cmd *cobra.Command, args []string) {
		dir, err := directory.Load(config.Cfg.DirectoryFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load employee directory: %v\n", err)
			os.Exit(1)
		}

		employees := dir.List()
		if len(employees) == 0 {
			fmt.Println("No employees found.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "EMPLOYEE ID\tNAME\tROLES")
		for _, employee := range employees {
			fmt.Fprintf(w, "%s\t%s\t%s\n", employee.EmployeeID, employee.Name, strings.Join(employee.Roles, ", "))
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(employeesCmd)
	employeesCmd.AddCommand(employeesListCmd)
}
