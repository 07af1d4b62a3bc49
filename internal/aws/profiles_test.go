package aws

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestListProfiles(t *testing.T) {
	credsPath := writeTempFile(t, "credentials", `[default]
aws_access_key_id = AKIAEXAMPLE
aws_secret_access_key = secret

[staging]
aws_access_key_id = AKIASTAGING
aws_secret_access_key = secret
`)
	configPath := writeTempFile(t, "config", `[profile production]
region = eu-west-1

[profile staging]
region = us-east-1
`)

	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", credsPath)
	t.Setenv("AWS_CONFIG_FILE", configPath)

	profiles, err := ListProfiles()
	require.NoError(t, err)

	// Merged across both files, de-duplicated, sorted
	assert.Equal(t, []string{"default", "production", "staging"}, profiles)
}

func TestListProfilesMissingFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "nope"))
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "also-nope"))

	profiles, err := ListProfiles()
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestIsValidProfile(t *testing.T) {
	credsPath := writeTempFile(t, "credentials", `[staging]
aws_access_key_id = AKIASTAGING
aws_secret_access_key = secret
`)
	dir := t.TempDir()
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", credsPath)
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "nope"))

	assert.True(t, IsValidProfile("staging"))
	assert.False(t, IsValidProfile("production"))
}
