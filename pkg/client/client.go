// Package client is a thin SDK over the notes HTTP API. Every method maps to
// one request and returns the decoded JSON body; a response carrying an
// error message (e.g. "Note not found") is not turned into a Go error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/notesbox/internal/telemetry/tracing"
)

const DefaultBaseURL = "http://127.0.0.1:8080"

type Note struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NoteResponse struct {
	Note
	Error string `json:"error,omitempty"`
}

type NotesResponse struct {
	Notes []Note `json:"notes"`
	Error string `json:"error,omitempty"`
}

type SearchResponse struct {
	Results []Note `json:"results"`
	Error   string `json:"error,omitempty"`
}

type AddNoteResponse struct {
	ID    int    `json:"id"`
	Error string `json:"error,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default traced http client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListNotes(ctx context.Context) (*NotesResponse, error) {
	var resp NotesResponse
	if err := c.do(ctx, http.MethodGet, "/notes", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetNote(ctx context.Context, id int) (*NoteResponse, error) {
	var resp NoteResponse
	if err := c.do(ctx, http.MethodGet, notePath(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AddNote(ctx context.Context, title, content string) (*AddNoteResponse, error) {
	body := map[string]string{
		"title":   title,
		"content": content,
	}

	var resp AddNoteResponse
	if err := c.do(ctx, http.MethodPost, "/notes", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateNote(ctx context.Context, id int, title, content string) (*MessageResponse, error) {
	body := map[string]string{
		"title":   title,
		"content": content,
	}

	var resp MessageResponse
	if err := c.do(ctx, http.MethodPut, notePath(id), nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PatchNote sends only the fields that are not nil
func (c *Client) PatchNote(ctx context.Context, id int, title, content *string) (*MessageResponse, error) {
	body := map[string]string{}
	if title != nil {
		body["title"] = *title
	}
	if content != nil {
		body["content"] = *content
	}

	var resp MessageResponse
	if err := c.do(ctx, http.MethodPatch, notePath(id), nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteNote(ctx context.Context, id int) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, http.MethodDelete, notePath(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SearchNotes(ctx context.Context, query string) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.do(ctx, http.MethodGet, "/notes/search", url.Values{"q": {query}}, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func notePath(id int) string {
	return "/notes/" + strconv.Itoa(id)
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
	out any,
) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "client.notes.request")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("notes.path", path),
	)

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response [status %d]: %w", method, path, resp.StatusCode, err)
	}

	return nil
}
