//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func (s *IntegrationTestSuite) TestNotesBox_EndToEnd() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t := s.T()

	notes, err := s.client.ListNotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes.Notes)

	added, err := s.client.AddNote(ctx, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, 1, added.ID)

	note, err := s.client.GetNote(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", note.Title)
	assert.Equal(t, "B", note.Content)
	assert.True(t, note.CreatedAt.Equal(note.UpdatedAt))

	patched, err := s.client.PatchNote(ctx, added.ID, nil, strPtr("B2"))
	require.NoError(t, err)
	assert.Equal(t, "Note patched successfully", patched.Message)

	patchedNote, err := s.client.GetNote(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", patchedNote.Title)
	assert.Equal(t, "B2", patchedNote.Content)
	assert.True(t, patchedNote.CreatedAt.Equal(note.CreatedAt))
	assert.False(t, patchedNote.UpdatedAt.Before(note.UpdatedAt))

	found, err := s.client.SearchNotes(ctx, "B2")
	require.NoError(t, err)
	require.Len(t, found.Results, 1)
	assert.Equal(t, added.ID, found.Results[0].ID)

	found, err = s.client.SearchNotes(ctx, "b2")
	require.NoError(t, err)
	assert.Empty(t, found.Results)

	found, err = s.client.SearchNotes(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "No search query provided", found.Error)

	deleted, err := s.client.DeleteNote(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Note deleted", deleted.Message)

	note, err = s.client.GetNote(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Note not found", note.Error)
}

func (s *IntegrationTestSuite) TestNotesBox_FullUpdateMissingField() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t := s.T()

	added, err := s.client.AddNote(ctx, "title", "content")
	require.NoError(t, err)

	resp, body := s.doRequest(ctx, http.MethodPut, fmt.Sprintf("/notes/%d", added.ID), `{"title":"new title"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Missing required field(s): content"}`, body)

	note, err := s.client.GetNote(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "title", note.Title)
	assert.Equal(t, "content", note.Content)

	resp, body = s.doRequest(ctx, http.MethodPost, "/notes", `{"title": null, "content": "c"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Missing required field(s): title"}`, body)

	resp, body = s.doRequest(ctx, http.MethodPut, "/notes/999", `{"title":"t","content":"c"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Note not found"}`, body)
}

func (s *IntegrationTestSuite) TestNotesBox_IDBeyondInt32() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t := s.T()
	const bigID = "/notes/3000000000"

	for _, tc := range []struct {
		method string
		body   string
	}{
		{method: http.MethodGet},
		{method: http.MethodPut, body: `{"title":"t","content":"c"}`},
		{method: http.MethodPatch, body: `{"title":"t"}`},
		{method: http.MethodDelete},
	} {
		resp, body := s.doRequest(ctx, tc.method, bigID, tc.body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, tc.method)
		assert.JSONEq(t, `{"error":"Note not found"}`, body, tc.method)
	}
}

func (s *IntegrationTestSuite) TestNotesBox_SearchWildcardsAreLiteral() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t := s.T()

	_, err := s.client.AddNote(ctx, "100% done", "with_underscore")
	require.NoError(t, err)
	_, err = s.client.AddNote(ctx, "1000 done", "withXunderscore")
	require.NoError(t, err)

	found, err := s.client.SearchNotes(ctx, "0%")
	require.NoError(t, err)
	require.Len(t, found.Results, 1)
	assert.Equal(t, "100% done", found.Results[0].Title)

	found, err = s.client.SearchNotes(ctx, "with_")
	require.NoError(t, err)
	require.Len(t, found.Results, 1)
	assert.Equal(t, "with_underscore", found.Results[0].Content)
}

func (s *IntegrationTestSuite) TestNotesBox_ConcurrentCreates() {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	t := s.T()
	const notesCount = 50

	var mu sync.Mutex
	ids := make(map[int]bool, notesCount)

	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < notesCount; i++ {
		i := i
		g.Go(func() error {
			resp, err := s.client.AddNote(gCtx, fmt.Sprintf("title %d", i), "content")
			if err != nil {
				return err
			}
			if resp.Error != "" {
				return fmt.Errorf("add note %d: %s", i, resp.Error)
			}
			mu.Lock()
			ids[resp.ID] = true
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Len(t, ids, notesCount)

	notes, err := s.client.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes.Notes, notesCount)
	for i := 1; i < len(notes.Notes); i++ {
		assert.Less(t, notes.Notes[i-1].ID, notes.Notes[i].ID)
	}
}

func (s *IntegrationTestSuite) TestNotesBox_MetricsExposed() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t := s.T()

	_, err := s.client.AddNote(ctx, "metrics", "note")
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s:%s/metrics", serverHost, metricsPort), nil)
	require.NoError(t, err)
	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "notesbox_main_notes_added")
	assert.Contains(t, string(body), "pgxpool_")
}

func (s *IntegrationTestSuite) TestMisc_RootAndCors() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t := s.T()

	resp, body := s.doRequest(ctx, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "MY NOTES", body)

	resp, body = s.doRequest(ctx, http.MethodGet, "/version", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"version":"test-version-info"}`, body)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverEndpoint+"/notes", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.example")
	corsResp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer corsResp.Body.Close()
	assert.Equal(t, http.StatusForbidden, corsResp.StatusCode)
}

func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path, body string) (*http.Response, string) {
	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	return resp, string(respBytes)
}

func strPtr(s string) *string {
	return &s
}
