package clean

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	awslib "volsweep/internal/aws"
	"volsweep/internal/cleaner"
	"volsweep/internal/config"
	"volsweep/internal/filter"
	"volsweep/internal/logging"
	"volsweep/internal/report"
	"volsweep/internal/worker"
)

type cleanOptions struct {
	accounts      []string
	scrapeOrg     bool
	role          string
	regions       []string
	autoApprove   bool
	poolSize      int
	ageDays       int
	tagFilters    []string
	ignoreMetrics bool
	reportFile    string
}

// NewCleanCmd creates the clean command
func NewCleanCmd() *cobra.Command {
	opts := &cleanOptions{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove unused EBS volumes",
		Long: `Scan for unattached EBS volumes, filter them by tags, idle-time metrics
and age, and delete the survivors after confirmation.

When no account is specified, the current caller account is cleaned.
When no region is specified, all enabled regions are cleaned.

Examples:
  # Clean the current account in all regions, prompting before deletion
  volsweep clean

  # Clean integration-test volumes without metric lookups, no prompt
  volsweep clean --tag 'Name:^integration-test' --ignore-metrics -y

  # Clean every account in the organization with a report
  volsweep clean --scrape-org --role VolumeCleaner --report-file removed.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Resolve flags over environment and config file
			config.Apply()
			opts.role = config.Config.Role
			opts.poolSize = config.Config.PoolSize
			opts.ageDays = config.Clean.Age
			opts.ignoreMetrics = config.Clean.IgnoreMetrics
			opts.reportFile = config.Clean.ReportFile
			if len(opts.regions) == 0 {
				opts.regions = config.Clean.Regions
			}
			if len(opts.accounts) == 0 {
				opts.accounts = config.Clean.Accounts
			}

			// Configuration errors are fatal before any cloud call is made
			if opts.ageDays <= 0 {
				return fmt.Errorf("--age must be a positive number of days, got %d", opts.ageDays)
			}
			rules, err := filter.ParseTagRules(opts.tagFilters)
			if err != nil {
				return err
			}
			return runClean(opts, rules)
		},
	}

	cmd.Flags().StringSliceVar(&opts.accounts, "account", config.Clean.Accounts, "AWS account ID to clean (repeatable, default: current account)")
	cmd.Flags().BoolVar(&opts.scrapeOrg, "scrape-org", false, "Clean the entire AWS organization (requires --role)")
	cmd.Flags().StringVar(&opts.role, "role", config.Config.Role, "IAM role name to assume in target accounts")
	cmd.Flags().StringSliceVarP(&opts.regions, "regions", "r", config.Clean.Regions, "Regions to clean (repeatable, default: all enabled regions)")
	cmd.Flags().BoolVarP(&opts.autoApprove, "yes", "y", false, "Assume yes to all questions")
	cmd.Flags().IntVarP(&opts.poolSize, "pool-size", "p", config.Config.PoolSize, "How many AWS API requests run in parallel per phase")
	cmd.Flags().IntVarP(&opts.ageDays, "age", "a", config.Clean.Age, "Days after which a volume is considered orphaned")
	cmd.Flags().StringSliceVarP(&opts.tagFilters, "tag", "t", nil, "Tag filter in format \"key:regex\" (repeatable, all must match)")
	cmd.Flags().BoolVarP(&opts.ignoreMetrics, "ignore-metrics", "i", config.Clean.IgnoreMetrics, "Ignore volume metrics, remove all detached volumes matching the tag filters")
	cmd.Flags().StringVar(&opts.reportFile, "report-file", config.Clean.ReportFile, "Filename for the JSON report of removed volumes")

	if err := config.BindFlags(cmd.Flags(), map[string]string{
		"aws.role":             "role",
		"app.pool_size":        "pool-size",
		"clean.age":            "age",
		"clean.ignore_metrics": "ignore-metrics",
		"clean.report_file":    "report-file",
	}); err != nil {
		// Only possible through flag misregistration above
		panic(err)
	}

	return cmd
}

func runClean(opts *cleanOptions, rules []filter.TagRule) error {
	ctx := context.Background()

	sessions := awslib.NewSessionProvider(awslib.Credentials{
		Profile:         config.Config.Profile,
		AccessKeyID:     config.Config.AccessKeyID,
		SecretAccessKey: config.Config.SecretAccessKey,
	})

	accounts, err := resolveAccounts(sessions, opts)
	if err != nil {
		return err
	}

	regions, err := resolveRegions(sessions, opts)
	if err != nil {
		return err
	}

	f := filter.New(rules, time.Duration(opts.ageDays)*24*time.Hour, opts.ignoreMetrics)
	pool := worker.NewPool(opts.poolSize)

	var confirm func(string) bool
	if !opts.autoApprove {
		confirm = promptYesNo
	}

	accountIDs := make([]string, 0, len(accounts))
	for _, a := range accounts {
		accountIDs = append(accountIDs, a.ID)
	}
	logging.CleanStart(accountIDs, regions)

	rep := report.New()
	for _, account := range accounts {
		rep.EnsureAccount(account.ID)
		if err := cleanAccount(ctx, account, regions, sessions, f, pool, confirm, rep); err != nil {
			if awslib.IsAccountUnauthorized(err) {
				logging.AccountSkipped(account.ID, err)
				continue
			}
			return err
		}
	}

	if opts.reportFile != "" {
		logging.Debug("Writing removal report", map[string]interface{}{
			"path": opts.reportFile,
		})
		if err := rep.WriteFile(opts.reportFile); err != nil {
			return err
		}
	}

	logging.CleanComplete(rep.TotalRemoved())
	return nil
}

// cleanAccount runs each region sequentially. A region-scoped authorization
// failure skips that region only; an account-scoped one propagates to the
// caller and skips the rest of the account.
func cleanAccount(ctx context.Context, account awslib.Account, regions []string, sessions *awslib.SessionProvider, f *filter.Filter, pool *worker.Pool, confirm func(string) bool, rep report.Report) error {
	for _, region := range regions {
		c := cleaner.New(account, region, sessions, f, pool, confirm)
		if err := c.Run(ctx); err != nil {
			if awslib.IsRegionUnauthorized(err) {
				logging.RegionSkipped(account.ID, region, err)
				continue
			}
			return err
		}
		rep.AddRegion(account.ID, region, c.RemovalLog())
	}
	return nil
}

// resolveAccounts turns the CLI input into the account list to clean
func resolveAccounts(sessions *awslib.SessionProvider, opts *cleanOptions) ([]awslib.Account, error) {
	if opts.scrapeOrg && opts.role != "" {
		base, err := sessions.Base("us-east-1")
		if err != nil {
			return nil, err
		}

		currentID, err := awslib.CurrentAccountID(base)
		if err != nil {
			return nil, err
		}

		orgIDs, err := awslib.ListOrganizationAccounts(base)
		if err != nil {
			return nil, err
		}

		var accounts []awslib.Account
		for _, id := range orgIDs {
			if id == currentID {
				continue
			}
			accounts = append(accounts, awslib.Account{ID: id, Role: opts.role})
		}
		// The current account is reachable without assuming the role
		accounts = append(accounts, awslib.Account{ID: currentID})
		return accounts, nil
	}

	if len(opts.accounts) > 0 {
		accounts := make([]awslib.Account, 0, len(opts.accounts))
		for _, id := range opts.accounts {
			accounts = append(accounts, awslib.Account{ID: id, Role: opts.role})
		}
		return accounts, nil
	}

	logging.Info("Account not specified, assuming current account")
	base, err := sessions.Base("us-east-1")
	if err != nil {
		return nil, err
	}
	currentID, err := awslib.CurrentAccountID(base)
	if err != nil {
		return nil, err
	}
	return []awslib.Account{{ID: currentID}}, nil
}

// resolveRegions turns the CLI input into the region list to clean
func resolveRegions(sessions *awslib.SessionProvider, opts *cleanOptions) ([]string, error) {
	base, err := sessions.Base("")
	if err != nil {
		return nil, err
	}

	if len(opts.regions) == 0 {
		logging.Info("Region not specified, assuming all regions")
		return awslib.GetAvailableRegions(base)
	}

	if err := awslib.ValidateRegions(base, opts.regions); err != nil {
		return nil, err
	}
	return opts.regions, nil
}
