package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/e-Diag/CalendarBot/internal/model"
)

// Client is a thin HTTP client for the planner CRUD API. It performs
// no caching: one call is one network round trip. It handles opaque
// credential authentication, JSON marshaling, and automatic retry with
// exponential backoff on HTTP 429.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a planner API client. The baseURL should be the
// root URL of the service (e.g., https://planner.example.com).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: 3,
	}
}

// List fetches the full item collection for the session's owner.
func (c *Client) List(ctx context.Context, s model.Session) ([]model.Item, error) {
	var items []model.Item
	if err := c.do(ctx, s, http.MethodGet, "/api/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Create persists a draft. The server assigns the id, the owner, and
// the lastEdited stamp; those fields are stripped from the payload.
func (c *Client) Create(ctx context.Context, s model.Session, draft model.Item) (model.Item, error) {
	draft.ID = ""
	draft.OwnerID = ""

	var created model.Item
	if err := c.do(ctx, s, http.MethodPost, "/api/items", draft, &created); err != nil {
		return model.Item{}, err
	}
	return created, nil
}

// Update replaces the stored item with the given state and returns the
// server's copy.
func (c *Client) Update(ctx context.Context, s model.Session, id string, it model.Item) (model.Item, error) {
	var updated model.Item
	path := "/api/items/" + id
	if err := c.do(ctx, s, http.MethodPut, path, it, &updated); err != nil {
		return model.Item{}, err
	}
	return updated, nil
}

// Delete removes an item. A KindNotFound error means the item was
// already gone; callers decide whether that counts as success.
func (c *Client) Delete(ctx context.Context, s model.Session, id string) error {
	return c.do(ctx, s, http.MethodDelete, "/api/items/"+id, nil, nil)
}

// errorBody is the JSON error envelope the planner API returns.
type errorBody struct {
	Error string `json:"error"`
}

// do is the core HTTP method that builds the request, attaches the
// session credential, retries on rate limiting, and maps failures to
// typed errors.
func (c *Client) do(
	ctx context.Context,
	s model.Session,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	url := c.baseURL + path
	op := method + " " + path
	requestID := uuid.New().String()

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Rebuild the body reader on retries since it was consumed.
		if attempt > 0 && body != nil {
			data, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Authorization", s.Token)
		req.Header.Set("Accept", "application/json")
		// One id across all retry attempts of the same logical request.
		req.Header.Set("X-Request-ID", requestID)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &Error{Kind: KindNetwork, Op: op, Err: err}
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return &Error{Kind: KindNetwork, Op: op, Err: readErr}
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = &Error{
				Kind:   KindServer,
				Op:     op,
				Status: resp.StatusCode,
			}

			select {
			case <-ctx.Done():
				return &Error{Kind: KindNetwork, Op: op, Err: ctx.Err()}
			case <-time.After(waitDuration):
				continue
			}
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized ||
			resp.StatusCode == http.StatusForbidden:
			return &Error{
				Kind:   KindUnauthorized,
				Op:     op,
				Status: resp.StatusCode,
				Err:    apiError(respBody),
			}

		case resp.StatusCode == http.StatusNotFound:
			return &Error{
				Kind:   KindNotFound,
				Op:     op,
				Status: resp.StatusCode,
				Err:    apiError(respBody),
			}

		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return &Error{
				Kind:   KindServer,
				Op:     op,
				Status: resp.StatusCode,
				Err:    apiError(respBody),
			}
		}

		// No content to parse (e.g. 204 on delete).
		if result == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return &Error{Kind: KindServer, Op: op, Status: resp.StatusCode, Err: err}
		}

		return nil
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// apiError extracts the server's error message, if the body carries one.
func apiError(body []byte) error {
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
		return fmt.Errorf("%s", eb.Error)
	}
	return nil
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
