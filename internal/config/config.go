package config

// GlobalConfig holds the global configuration for the application
type GlobalConfig struct {
	// Profile is the AWS profile to use
	Profile string

	// AccessKeyID is a static AWS access key, overrides the profile when set
	AccessKeyID string

	// SecretAccessKey is the static AWS secret key paired with AccessKeyID
	SecretAccessKey string

	// Role is the IAM role name assumed in each target account
	Role string

	// PoolSize defines how many AWS API requests run in parallel per phase
	PoolSize int

	// LogFormat is the format for logging
	LogFormat string

	// LogLevel is the minimum level emitted by the logger
	LogLevel string
}

// Config is the global configuration instance
var Config = &GlobalConfig{
	Profile:   "default",
	PoolSize:  10,
	LogFormat: "text",
	LogLevel:  "INFO",
}

// CleanConfig holds the clean-command settings resolved from flags,
// environment variables and the config file.
type CleanConfig struct {
	Age           int
	Regions       []string
	Accounts      []string
	IgnoreMetrics bool
	ReportFile    string
}

// Clean is the global clean-command configuration instance
var Clean = &CleanConfig{Age: 14}
