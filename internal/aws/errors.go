package aws

import (
	"errors"

	"github.com/aws/aws-sdk-go/aws/awserr"
)

const (
	codeRequestLimitExceeded  = "RequestLimitExceeded"
	codeThrottling            = "Throttling"
	codeThrottlingException   = "ThrottlingException"
	codeUnauthorizedOperation = "UnauthorizedOperation"
	codeAccessDenied          = "AccessDenied"
	codeAccessDeniedException = "AccessDeniedException"
)

func errorCode(err error) string {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		return aerr.Code()
	}
	return ""
}

// IsRateLimited reports whether err is a request-throughput error that is
// safe to retry with backoff.
func IsRateLimited(err error) bool {
	switch errorCode(err) {
	case codeRequestLimitExceeded, codeThrottling, codeThrottlingException:
		return true
	}
	return false
}

// IsRegionUnauthorized reports whether err denied access to a single region's
// EC2 resources. The caller is expected to skip the region and continue.
func IsRegionUnauthorized(err error) bool {
	return errorCode(err) == codeUnauthorizedOperation
}

// IsAccountUnauthorized reports whether err denied access at account scope.
// The caller is expected to skip the account and continue.
func IsAccountUnauthorized(err error) bool {
	return errorCode(err) == codeAccessDenied
}

// IsOrgAccessDenied reports whether err denied the organizations ListAccounts
// call, which degrades to scanning only the current account.
func IsOrgAccessDenied(err error) bool {
	return errorCode(err) == codeAccessDeniedException
}
