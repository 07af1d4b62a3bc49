package aws

import (
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/undefinedlabs/go-mpatch"
)

func TestValidateRegions(t *testing.T) {
	patch, err := mpatch.PatchMethod(GetAvailableRegions,
		func(sess *session.Session) ([]string, error) {
			return []string{"eu-west-1", "us-east-1"}, nil
		})
	require.NoError(t, err)
	defer func() {
		if err := patch.Unpatch(); err != nil {
			panic(fmt.Sprintf("Failed to unpatch: %v", err))
		}
	}()

	sess := &session.Session{}
	assert.NoError(t, ValidateRegions(sess, nil))
	assert.NoError(t, ValidateRegions(sess, []string{"eu-west-1"}))
	assert.NoError(t, ValidateRegions(sess, []string{"us-east-1", "eu-west-1"}))

	err = ValidateRegions(sess, []string{"eu-west-1", "mars-north-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mars-north-1")
	assert.Contains(t, err.Error(), "eu-west-1, us-east-1")
}
