package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadValidator_GitHubValid(t *testing.T) {
	v, err := NewPayloadValidator()
	require.NoError(t, err)

	payload := map[string]any{
		"repository": map[string]any{"full_name": "acme/api"},
		"sender":     map[string]any{"login": "octocat"},
	}
	assert.NoError(t, v.Validate(ProviderGitHub, payload))
}

func TestPayloadValidator_GitHubMissingSender(t *testing.T) {
	v, err := NewPayloadValidator()
	require.NoError(t, err)

	payload := map[string]any{
		"repository": map[string]any{"full_name": "acme/api"},
	}
	assert.Error(t, v.Validate(ProviderGitHub, payload))
}

func TestPayloadValidator_BitbucketValid(t *testing.T) {
	v, err := NewPayloadValidator()
	require.NoError(t, err)

	payload := map[string]any{
		"repository": map[string]any{"full_name": "acme/api"},
		"actor":      map[string]any{"nickname": "octocat"},
	}
	assert.NoError(t, v.Validate(ProviderBitbucket, payload))
}

func TestPayloadValidator_AzureRequiresEventType(t *testing.T) {
	v, err := NewPayloadValidator()
	require.NoError(t, err)

	assert.Error(t, v.Validate(ProviderAzure, map[string]any{
		"resource": map[string]any{},
	}))
	assert.NoError(t, v.Validate(ProviderAzure, map[string]any{
		"eventType": "git.push",
		"resource":  map[string]any{},
	}))
}

func TestPayloadValidator_UnknownProviderPasses(t *testing.T) {
	v, err := NewPayloadValidator()
	require.NoError(t, err)

	assert.NoError(t, v.Validate("gitea", map[string]any{}))
}
