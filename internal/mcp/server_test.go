package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdshelf/cmdshelf/pkg/store"
)

func searchFixture(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Parse([]byte(`{
  "GIT": [
    {"command": "git status", "description": "Shows the working tree status.", "usage example": "git status"},
    {"command": "git checkout -b <branch_name>", "description": "Creates a new branch.", "usage example": "git checkout -b feature"}
  ],
  "DOCKER": [
    {"command": "docker logs -f <container_name>", "description": "Streams container logs.", "usage example": "docker logs -f web"}
  ]
}`))
	require.NoError(t, err)
	return st
}

func TestSearchStore_MatchesAnyField(t *testing.T) {
	st := searchFixture(t)

	byCommand := searchStore(st, "checkout", 10)
	require.Len(t, byCommand, 1)
	assert.Equal(t, "GIT", byCommand[0].Category)

	byDescription := searchStore(st, "streams", 10)
	require.Len(t, byDescription, 1)
	assert.Equal(t, "DOCKER", byDescription[0].Category)

	byUsage := searchStore(st, "feature", 10)
	require.Len(t, byUsage, 1)
}

func TestSearchStore_CaseInsensitive(t *testing.T) {
	st := searchFixture(t)
	assert.Len(t, searchStore(st, "GIT STATUS", 10), 1)
}

func TestSearchStore_Limit(t *testing.T) {
	st := searchFixture(t)
	assert.Len(t, searchStore(st, "o", 2), 2)
}

func TestSearchStore_NoMatch(t *testing.T) {
	st := searchFixture(t)
	assert.Empty(t, searchStore(st, "kubectl", 10))
}
