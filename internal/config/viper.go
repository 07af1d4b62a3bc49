package config

import (
	"fmt"
	"strings"

	"volsweep/internal/logging"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func init() {
	viper.SetEnvPrefix("VOLSWEEP")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Defaults for all configuration values
	viper.SetDefault("aws.profile", "default")
	viper.SetDefault("aws.access_key_id", "")
	viper.SetDefault("aws.secret_access_key", "")
	viper.SetDefault("aws.role", "")
	viper.SetDefault("app.pool_size", 10)
	viper.SetDefault("app.log_format", "text")
	viper.SetDefault("app.log_level", "INFO")
	viper.SetDefault("clean.age", 14)
	viper.SetDefault("clean.regions", "")
	viper.SetDefault("clean.accounts", "")
	viper.SetDefault("clean.ignore_metrics", false)
	viper.SetDefault("clean.report_file", "")
}

// InitConfig loads the optional config file from the working directory and
// resolves the configuration into Config and Clean.
func InitConfig(shouldLog bool) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		if shouldLog {
			logging.Debug("No config file found, using defaults and environment variables", nil)
		}
	} else if shouldLog {
		logging.Debug("Loaded config file", map[string]interface{}{
			"path": viper.ConfigFileUsed(),
		})
	}

	Apply()
	return nil
}

// SetConfigFile loads an explicit config file and re-resolves the configuration
func SetConfigFile(configFile string) error {
	viper.SetConfigFile(configFile)

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	Apply()
	return nil
}

// BindFlags gives the given command-line flags precedence over environment
// variables and the config file. keys maps config entries to flag names.
func BindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("cannot bind config key %s: flag --%s is not registered", key, name)
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

// Apply resolves every configuration value into Config and Clean. Explicitly
// set flags win, then environment variables, then the config file, then the
// defaults.
func Apply() {
	Config.Profile = viper.GetString("aws.profile")
	Config.AccessKeyID = viper.GetString("aws.access_key_id")
	Config.SecretAccessKey = viper.GetString("aws.secret_access_key")
	Config.Role = viper.GetString("aws.role")
	Config.PoolSize = viper.GetInt("app.pool_size")
	Config.LogFormat = viper.GetString("app.log_format")
	Config.LogLevel = viper.GetString("app.log_level")

	Clean.Age = viper.GetInt("clean.age")
	Clean.Regions = splitList(viper.GetString("clean.regions"))
	Clean.Accounts = splitList(viper.GetString("clean.accounts"))
	Clean.IgnoreMetrics = viper.GetBool("clean.ignore_metrics")
	Clean.ReportFile = viper.GetString("clean.report_file")
}

// splitList parses a comma-separated config value into its entries
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
