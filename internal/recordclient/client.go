// Package recordclient speaks the record-service wire contract over HTTP.
package recordclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskflow/internal/models"
)

// APIError is a non-2xx answer from the record service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("record service returned %d", e.Status)
}

// Client is an authenticated HTTP client for the record service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New returns a Client. A zero timeout leaves requests bounded only by ctx.
func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// Tasks returns the task table.
func (c *Client) Tasks() *Table[models.Task, models.TaskRecord] {
	return &Table[models.Task, models.TaskRecord]{c: c, name: models.TableTask}
}

// Categories returns the category table.
func (c *Client) Categories() *Table[models.Category, models.CategoryRecord] {
	return &Table[models.Category, models.CategoryRecord]{c: c, name: models.TableCategory}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return err
		}
		rdr = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&env)
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Table is one record table of the service.
type Table[T, R any] struct {
	c    *Client
	name string
}

func (t *Table[T, R]) path(suffix string) string {
	return "/api/records/" + url.PathEscape(t.name) + suffix
}

func (t *Table[T, R]) Fetch(ctx context.Context, q models.ListQuery) (*models.ListResponse[T], error) {
	var out models.ListResponse[T]
	if err := t.c.do(ctx, http.MethodPost, t.path("/query"), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *Table[T, R]) Get(ctx context.Context, id string, fields []string) (*models.GetResponse[T], error) {
	p := t.path("/" + url.PathEscape(id))
	if len(fields) > 0 {
		p += "?fields=" + url.QueryEscape(strings.Join(fields, ","))
	}
	var out models.GetResponse[T]
	err := t.c.do(ctx, http.MethodGet, p, nil, &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return &out, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *Table[T, R]) Create(ctx context.Context, req models.MutationRequest[R]) (*models.MutationResponse[T], error) {
	var out models.MutationResponse[T]
	if err := t.c.do(ctx, http.MethodPost, t.path(""), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *Table[T, R]) Update(ctx context.Context, req models.MutationRequest[R]) (*models.MutationResponse[T], error) {
	var out models.MutationResponse[T]
	if err := t.c.do(ctx, http.MethodPut, t.path(""), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *Table[T, R]) Delete(ctx context.Context, req models.DeleteRequest) (*models.DeleteResponse, error) {
	var out models.DeleteResponse
	if err := t.c.do(ctx, http.MethodDelete, t.path(""), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
