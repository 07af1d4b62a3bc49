package aws

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/credentials/stscreds"
	"github.com/aws/aws-sdk-go/aws/session"

	"volsweep/internal/logging"
)

// Credentials selects how base AWS sessions authenticate. Static keys take
// precedence over the shared-config profile when both are set.
type Credentials struct {
	Profile         string
	AccessKeyID     string
	SecretAccessKey string
}

// SessionProvider builds AWS sessions for accounts and regions. Workers each
// request their own session so no client handle is shared across goroutines.
type SessionProvider struct {
	creds Credentials
}

// NewSessionProvider creates a SessionProvider using the given credentials
func NewSessionProvider(creds Credentials) *SessionProvider {
	return &SessionProvider{creds: creds}
}

// Base creates a session in the given region using the configured credentials
func (p *SessionProvider) Base(region string) (*session.Session, error) {
	cfg := aws.NewConfig()
	if region != "" {
		cfg = cfg.WithRegion(region)
	}

	if p.creds.AccessKeyID != "" && p.creds.SecretAccessKey != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(
			p.creds.AccessKeyID, p.creds.SecretAccessKey, ""))
		sess, err := session.NewSession(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %w", err)
		}
		return sess, nil
	}

	opts := session.Options{
		Config:            *cfg,
		Profile:           p.creds.Profile,
		SharedConfigState: session.SharedConfigEnable,
	}
	sess, err := session.NewSessionWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return sess, nil
}

// ForAccount creates a session scoped to the given account and region,
// assuming the account's role when one is configured.
func (p *SessionProvider) ForAccount(account Account, region string) (*session.Session, error) {
	if account.Role == "" {
		return p.Base(region)
	}

	base, err := p.Base("us-east-1")
	if err != nil {
		return nil, err
	}

	roleARN := fmt.Sprintf("arn:aws:iam::%s:role/%s", account.ID, account.Role)
	logging.Debug("Assuming role", map[string]interface{}{
		"account_id": account.ID,
		"role_arn":   roleARN,
	})

	creds := stscreds.NewCredentials(base, roleARN, func(arp *stscreds.AssumeRoleProvider) {
		arp.RoleSessionName = fmt.Sprintf("volsweep-%s-%d", account.ID, time.Now().Unix())
	})

	cfg := aws.NewConfig().WithCredentials(creds)
	if region != "" {
		cfg = cfg.WithRegion(region)
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to assume role %s in account %s: %w", account.Role, account.ID, err)
	}
	return sess, nil
}
