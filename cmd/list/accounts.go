package list

import (
	"fmt"

	awslib "volsweep/internal/aws"
	"volsweep/internal/config"

	"github.com/spf13/cobra"
)

// NewAccountsCmd creates and returns the accounts command
func NewAccountsCmd() *cobra.Command {
	var scrapeOrg bool

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List available AWS accounts",
		Long: `List the AWS accounts a cleaning run would cover.
Without --scrape-org only the current account is shown.`,
		Example: `  # List the current account
  volsweep list accounts

  # List all accounts in the organization
  volsweep list accounts --scrape-org`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccounts(cmd, scrapeOrg)
		},
	}

	cmd.Flags().BoolVar(&scrapeOrg, "scrape-org", false, "List all accounts in the AWS organization")
	return cmd
}

func runAccounts(cmd *cobra.Command, scrapeOrg bool) error {
	sessions := awslib.NewSessionProvider(awslib.Credentials{
		Profile:         config.Config.Profile,
		AccessKeyID:     config.Config.AccessKeyID,
		SecretAccessKey: config.Config.SecretAccessKey,
	})

	sess, err := sessions.Base("us-east-1")
	if err != nil {
		return err
	}

	currentID, err := awslib.CurrentAccountID(sess)
	if err != nil {
		return fmt.Errorf("failed to get current account: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (current)\n", currentID)

	if !scrapeOrg {
		return nil
	}

	orgIDs, err := awslib.ListOrganizationAccounts(sess)
	if err != nil {
		return fmt.Errorf("failed to list organization accounts: %w", err)
	}
	for _, id := range orgIDs {
		if id == currentID {
			continue
		}
		fmt.Fprintln(out, id)
	}

	return nil
}
