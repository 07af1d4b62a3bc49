package list

import (
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts, regions and credential profiles",
		Long: `List the AWS entities a cleaning run would operate on.
Currently supports listing:
  - AWS accounts in the organization or the current account
  - Regions enabled for the account
  - Available AWS credential profiles`,
	}

	cmd.AddCommand(NewAccountsCmd())
	cmd.AddCommand(NewRegionsCmd())
	cmd.AddCommand(NewProfilesCmd())

	return cmd
}
