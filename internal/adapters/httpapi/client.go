package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/sensei/pkg/lesson"
	"github.com/aretw0/sensei/pkg/ports"
)

// Client implements ports.LessonService against a reference server.
type Client struct {
	base string
	http *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.http = c
	}
}

// NewClient creates a client for the service at base URL.
func NewClient(base string, opts ...ClientOption) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) GetTaskDescription(ctx context.Context, lessonID, taskID string) (string, []byte, error) {
	const op = "get task description"
	var doc taskDoc
	path := fmt.Sprintf("/lessons/%s/tasks/%s", url.PathEscape(lessonID), url.PathEscape(taskID))
	if err := c.do(ctx, http.MethodGet, path, nil, &doc); err != nil {
		return "", nil, ports.NewServiceError(op, err)
	}
	return doc.Text, []byte(doc.Input), nil
}

func (c *Client) AttemptLesson(ctx context.Context, session ports.Session, lessonID, taskID, input string) (string, []lesson.Response, error) {
	const op = "attempt lesson"
	req := attemptRequest{
		Session: string(session),
		Lesson:  lessonID,
		Task:    taskID,
		Input:   input,
	}
	var doc attemptDoc
	if err := c.do(ctx, http.MethodPost, "/attempts", req, &doc); err != nil {
		return "", nil, ports.NewServiceError(op, err)
	}
	return doc.Result, doc.Responses, nil
}

func (c *Client) OpenSession(ctx context.Context, lessonID string) (ports.Session, error) {
	var doc sessionDoc
	if err := c.do(ctx, http.MethodPost, "/sessions", sessionRequest{Lesson: lessonID}, &doc); err != nil {
		return "", ports.NewServiceError("open session", err)
	}
	return ports.Session(doc.Session), nil
}

func (c *Client) CloseSession(ctx context.Context, session ports.Session) error {
	path := "/sessions/" + url.PathEscape(string(session))
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return ports.NewServiceError("close session", err)
	}
	return nil
}

func (c *Client) UnlockedLessons(ctx context.Context, modality string) ([]ports.LessonSummary, error) {
	path := "/lessons"
	if modality != "" {
		path += "?modality=" + url.QueryEscape(modality)
	}
	var doc lessonsDoc
	if err := c.do(ctx, http.MethodGet, path, nil, &doc); err != nil {
		return nil, ports.NewServiceError("list lessons", err)
	}
	return doc.Lessons, nil
}

// Warnings fetches the service's accumulated content warnings.
func (c *Client) Warnings(ctx context.Context) ([]string, error) {
	var doc warningsDoc
	if err := c.do(ctx, http.MethodGet, "/warnings", nil, &doc); err != nil {
		return nil, ports.NewServiceError("fetch warnings", err)
	}
	return doc.Warnings, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var doc errorDoc
		if derr := json.NewDecoder(resp.Body).Decode(&doc); derr == nil && doc.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, doc.Error)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
