package repository

import (
	"context"
	"testing"

	"github.com/incidentdesk/incident-service/internal/incident"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	require.NoError(t, r.Insert(ctx, incident.New(1, map[string]interface{}{"title": "server down", "severity": "high"})))
	require.NoError(t, r.Insert(ctx, incident.New(2, map[string]interface{}{"title": "disk full"})))
	require.ErrorIs(t, r.Insert(ctx, incident.New(1, map[string]interface{}{"title": "dup"})), ErrDuplicate)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// insertion order
	require.Equal(t, int64(1), list[0].IssueNumber)
	require.Equal(t, int64(2), list[1].IssueNumber)

	got, err := r.Update(ctx, 1, map[string]interface{}{"status": "resolved", "issue_number": 5})
	require.NoError(t, err)
	require.Equal(t, int64(1), got.IssueNumber)
	require.Equal(t, "resolved", got.Attributes["status"])
	require.Equal(t, "server down", got.Attributes["title"])
	require.Equal(t, "high", got.Attributes["severity"])

	_, err = r.Update(ctx, 9, map[string]interface{}{"status": "resolved"})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Delete(ctx, 1))
	require.ErrorIs(t, r.Delete(ctx, 1), ErrNotFound)

	list, err = r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, int64(2), list[0].IssueNumber)
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	require.NoError(t, r.Insert(ctx, incident.New(1, map[string]interface{}{"status": "open"})))

	list, err := r.List(ctx)
	require.NoError(t, err)
	list[0].Attributes["status"] = "mutated"

	list, err = r.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "open", list[0].Attributes["status"])
}

func TestMemoryRepoEmptyList(t *testing.T) {
	list, err := NewMemoryRepo().List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}
