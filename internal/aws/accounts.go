package aws

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/organizations"
	"github.com/aws/aws-sdk-go/service/sts"

	"volsweep/internal/logging"
)

// Account identifies a target AWS account and the role to assume in it.
// An empty Role means the base credentials are used directly.
type Account struct {
	ID   string
	Role string
}

// CurrentAccountID returns the account ID of the session's caller identity
func CurrentAccountID(sess *session.Session) (string, error) {
	svc := sts.New(sess)
	identity, err := svc.GetCallerIdentity(&sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}
	return aws.StringValue(identity.Account), nil
}

// ListOrganizationAccounts lists all account IDs in the caller's organization.
// A denied ListAccounts call is downgraded to an error log and an empty list.
func ListOrganizationAccounts(sess *session.Session) ([]string, error) {
	svc := organizations.New(sess)
	input := &organizations.ListAccountsInput{}

	var accountIDs []string
	err := svc.ListAccountsPages(input, func(page *organizations.ListAccountsOutput, lastPage bool) bool {
		for _, account := range page.Accounts {
			accountIDs = append(accountIDs, aws.StringValue(account.Id))
		}
		return !lastPage
	})

	if err != nil {
		if IsOrgAccessDenied(err) {
			logging.Error("Missing permissions to list organization accounts", err, nil)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list organization accounts: %w", err)
	}

	for _, id := range accountIDs {
		logging.Debug("Found org account", map[string]interface{}{"account_id": id})
	}
	logging.Info("Listed organization accounts", map[string]interface{}{
		"account_count": len(accountIDs),
	})
	return accountIDs, nil
}
