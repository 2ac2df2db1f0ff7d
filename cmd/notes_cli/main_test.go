package main

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notesBox "github.com/2beens/notesbox/internal/notes_box"
	"github.com/2beens/notesbox/internal/telemetry/metrics"
	"github.com/2beens/notesbox/pkg/client"
)

func newTestClient(t *testing.T) *client.Client {
	t.Helper()

	r := mux.NewRouter()
	notesBox.NewHandler(
		notesBox.NewService(notesBox.NewMemoryRepo(), metrics.NewTestManager()),
	).SetupRoutes(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return client.New(server.URL, client.WithHTTPClient(server.Client()))
}

func TestRun_Example(t *testing.T) {
	c := newTestClient(t)

	results, err := run(context.Background(), c, "example", nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	added, ok := results[0].(*client.AddNoteResponse)
	require.True(t, ok)
	assert.Equal(t, 1, added.ID)

	all, ok := results[1].(*client.NotesResponse)
	require.True(t, ok)
	require.Len(t, all.Notes, 1)
	assert.Equal(t, "Test Note", all.Notes[0].Title)
}

func TestRun_Patch(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := run(ctx, c, "add", []string{"title", "content"})
	require.NoError(t, err)

	results, err := run(ctx, c, "patch", []string{"1", "-content", ""})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Note patched successfully", results[0].(*client.MessageResponse).Message)

	results, err = run(ctx, c, "get", []string{"1"})
	require.NoError(t, err)
	note := results[0].(*client.NoteResponse)
	assert.Equal(t, "title", note.Title)
	assert.Equal(t, "", note.Content)
}

func TestRun_InvalidArgs(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := run(ctx, c, "get", []string{"abc"})
	assert.ErrorContains(t, err, "invalid id [abc]")

	_, err = run(ctx, c, "add", []string{"only-title"})
	assert.Error(t, err)

	_, err = run(ctx, c, "patch", nil)
	assert.Error(t, err)

	_, err = run(ctx, c, "nope", nil)
	assert.ErrorContains(t, err, "unknown command")
}
