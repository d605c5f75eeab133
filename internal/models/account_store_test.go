package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountStore_LinkAndResolve(t *testing.T) {
	s := NewAccountStore()
	s.Link("github", "octocat", "alice")

	id, ok := s.Resolve("github", "octocat")
	require.True(t, ok)
	assert.Equal(t, "alice", id)
}

func TestAccountStore_ResolveUnknown(t *testing.T) {
	s := NewAccountStore()
	_, ok := s.Resolve("github", "ghost")
	assert.False(t, ok)
}

func TestAccountStore_ProvidersAreSeparate(t *testing.T) {
	s := NewAccountStore()
	s.Link("github", "octocat", "alice")
	s.Link("bitbucket", "octocat", "bob")

	id, _ := s.Resolve("github", "octocat")
	assert.Equal(t, "alice", id)
	id, _ = s.Resolve("bitbucket", "octocat")
	assert.Equal(t, "bob", id)
}

func TestAccountStore_LinkOverwrites(t *testing.T) {
	s := NewAccountStore()
	s.Link("github", "octocat", "alice")
	s.Link("github", "octocat", "bob")

	id, _ := s.Resolve("github", "octocat")
	assert.Equal(t, "bob", id)
	assert.Equal(t, 1, s.Len())
}

func TestAccountStore_DataRoundTrip(t *testing.T) {
	s := NewAccountStore()
	s.Link("github", "octocat", "alice")
	s.Link("azure", "vsts-user", "bob")

	data := s.GetData()
	require.Len(t, data, 2)

	restored := NewAccountStore()
	restored.PutData(data)

	id, ok := restored.Resolve("github", "octocat")
	require.True(t, ok)
	assert.Equal(t, "alice", id)
	id, ok = restored.Resolve("azure", "vsts-user")
	require.True(t, ok)
	assert.Equal(t, "bob", id)
}

func TestAccountStore_PutDataSkipsInvalid(t *testing.T) {
	s := NewAccountStore()
	s.PutData([]ConnectedAccount{
		{Provider: "", Login: "x", UserID: "u"},
		{Provider: "github", Login: "", UserID: "u"},
		{Provider: "github", Login: "x", UserID: ""},
		{Provider: "github", Login: "ok", UserID: "alice"},
	})
	assert.Equal(t, 1, s.Len())
}
