package cmd

import (
	"strings"

	"volsweep/cmd/clean"
	"volsweep/cmd/list"
	"volsweep/cmd/version"
	"volsweep/internal/config"
	"volsweep/internal/logging"

	"github.com/spf13/cobra"
)

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	var (
		verbose    bool
		configFile string
	)

	// Initialize config
	if err := config.InitConfig(false); err != nil {
		return err
	}

	rootCmd := &cobra.Command{
		Use:   "volsweep",
		Short: "volsweep - remove unused EBS volumes",
		Long: `volsweep scans AWS accounts and regions for unattached EBS volumes,
filters them by tags, idle-time metrics and age, asks for confirmation and
deletes the survivors, recording a JSON audit report.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				if err := config.SetConfigFile(configFile); err != nil {
					return err
				}
			} else {
				// Re-resolve so explicitly set flags take effect
				config.Apply()
			}

			logFormat := logging.Text
			if config.Config.LogFormat == "json" {
				logFormat = logging.JSON
			}

			var level logging.Level
			switch strings.ToUpper(config.Config.LogLevel) {
			case "DEBUG":
				level = logging.DEBUG
			case "WARN":
				level = logging.WARN
			case "ERROR":
				level = logging.ERROR
			default:
				level = logging.INFO
			}
			if verbose {
				level = logging.DEBUG
			}

			logging.Configure(logging.LogConfig{
				Level:  level,
				Format: logFormat,
			})
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&config.Config.Profile, "profile", config.Config.Profile, "AWS profile to use (supports SSO profiles)")
	rootCmd.PersistentFlags().StringVarP(&config.Config.AccessKeyID, "access-key-id", "k", config.Config.AccessKeyID, "AWS Access Key ID")
	rootCmd.PersistentFlags().StringVarP(&config.Config.SecretAccessKey, "secret-access-key", "s", config.Config.SecretAccessKey, "AWS Secret Access Key")
	rootCmd.PersistentFlags().StringVar(&config.Config.LogFormat, "log-format", config.Config.LogFormat, "Log output format (text or json)")
	rootCmd.PersistentFlags().StringVar(&config.Config.LogLevel, "log-level", config.Config.LogLevel,
		"Set logging level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging, same as --log-level DEBUG")

	if err := config.BindFlags(rootCmd.PersistentFlags(), map[string]string{
		"aws.profile":           "profile",
		"aws.access_key_id":     "access-key-id",
		"aws.secret_access_key": "secret-access-key",
		"app.log_format":        "log-format",
		"app.log_level":         "log-level",
	}); err != nil {
		return err
	}

	rootCmd.AddCommand(clean.NewCleanCmd())
	rootCmd.AddCommand(list.NewListCmd())
	rootCmd.AddCommand(version.NewVersionCmd())

	return rootCmd.Execute()
}
