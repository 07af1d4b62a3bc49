package aws

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	rateLimited := awserr.New("RequestLimitExceeded", "Request limit exceeded.", nil)
	throttled := awserr.New("Throttling", "Rate exceeded", nil)
	regionDenied := awserr.New("UnauthorizedOperation", "You are not authorized to perform this operation.", nil)
	accountDenied := awserr.New("AccessDenied", "Access denied", nil)
	orgDenied := awserr.New("AccessDeniedException", "Access denied", nil)
	other := errors.New("connection reset")

	assert.True(t, IsRateLimited(rateLimited))
	assert.True(t, IsRateLimited(throttled))
	assert.False(t, IsRateLimited(regionDenied))
	assert.False(t, IsRateLimited(other))
	assert.False(t, IsRateLimited(nil))

	assert.True(t, IsRegionUnauthorized(regionDenied))
	assert.False(t, IsRegionUnauthorized(accountDenied))

	assert.True(t, IsAccountUnauthorized(accountDenied))
	assert.False(t, IsAccountUnauthorized(regionDenied))

	assert.True(t, IsOrgAccessDenied(orgDenied))
	assert.False(t, IsOrgAccessDenied(accountDenied))
}

func TestErrorClassificationUnwrapsWrappedErrors(t *testing.T) {
	inner := awserr.New("RequestLimitExceeded", "Request limit exceeded.", nil)
	wrapped := fmt.Errorf("failed to delete volume vol-1: %w", inner)

	assert.True(t, IsRateLimited(wrapped))

	doubleWrapped := fmt.Errorf("max retries exceeded: %w", wrapped)
	assert.True(t, IsRateLimited(doubleWrapped))
}
