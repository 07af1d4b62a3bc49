package list

import (
	"fmt"

	awslib "volsweep/internal/aws"
	"volsweep/internal/config"

	"github.com/spf13/cobra"
)

// NewRegionsCmd creates and returns the regions command
func NewRegionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List regions enabled for the account",
		Example: `  # List all regions a cleaning run would cover by default
  volsweep list regions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegions(cmd)
		},
	}

	return cmd
}

func runRegions(cmd *cobra.Command) error {
	sessions := awslib.NewSessionProvider(awslib.Credentials{
		Profile:         config.Config.Profile,
		AccessKeyID:     config.Config.AccessKeyID,
		SecretAccessKey: config.Config.SecretAccessKey,
	})

	sess, err := sessions.Base("")
	if err != nil {
		return err
	}

	regions, err := awslib.GetAvailableRegions(sess)
	if err != nil {
		return fmt.Errorf("failed to list regions: %w", err)
	}

	for _, region := range regions {
		fmt.Fprintln(cmd.OutOrStdout(), region)
	}

	return nil
}
