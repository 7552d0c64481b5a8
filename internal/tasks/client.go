// internal/tasks/client.go
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"pabench/internal/logging"
)

const (
	apiKeyHeader = "X-Browser-Use-API-Key"
	pageSize     = 100 // maximum the API allows
)

// Client talks to the automation cloud's task API.
type Client struct {
	base    string
	apiKey  string
	client  *http.Client
	timeout time.Duration
	debug   bool
}

// NewClient constructs a Client for the given API base URL.
func NewClient(base, apiKey string, timeout time.Duration, debug bool) *Client {
	return &Client{
		base:   base,
		apiKey: apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
		debug:   debug,
	}
}

// Task fetches a single task by ID.
func (c *Client) Task(ctx context.Context, id string) (TaskRecord, error) {
	var task TaskRecord
	endpoint := c.base + "/" + url.PathEscape(id)
	if err := c.getJSON(ctx, endpoint, nil, &task); err != nil {
		return TaskRecord{}, err
	}
	return task, nil
}

// Tasks fetches every task finished inside the [after, before] UTC window,
// paging until the API runs dry, and dedupes retried task IDs preferring
// the successful record.
func (c *Client) Tasks(ctx context.Context, after, before time.Time) ([]TaskRecord, error) {
	var out []TaskRecord
	for page := 1; ; page++ {
		params := url.Values{
			"after":      {after.UTC().Format("2006-01-02T15:04:05Z")},
			"before":     {before.UTC().Format("2006-01-02T15:04:05Z")},
			"pageSize":   {strconv.Itoa(pageSize)},
			"pageNumber": {strconv.Itoa(page)},
		}

		var body struct {
			Items []TaskRecord `json:"items"`
		}
		if err := c.getJSON(ctx, c.base, params, &body); err != nil {
			return nil, err
		}
		if len(body.Items) == 0 {
			break
		}
		out = append(out, body.Items...)
		if len(body.Items) < pageSize {
			break
		}
	}
	return Dedupe(out), nil
}

// Dedupe collapses duplicate task IDs, keeping the successful record when a
// retried task appears both failed and succeeded. First occurrence order is
// preserved.
func Dedupe(records []TaskRecord) []TaskRecord {
	index := make(map[string]int, len(records))
	out := make([]TaskRecord, 0, len(records))
	for _, task := range records {
		at, seen := index[task.ID]
		if !seen {
			index[task.ID] = len(out)
			out = append(out, task)
			continue
		}
		if out[at].Failed() && task.Succeeded() {
			out[at] = task
		}
	}
	return out
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, v any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	if c.debug {
		logging.LogRequest("send", target, nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build task request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("task request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("task API returned %s: %s", resp.Status, string(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode task response: %w", err)
	}
	return nil
}
