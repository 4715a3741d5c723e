// Package remote talks to the shared session server. Every call is bounded
// by the caller's context; the engine never blocks indefinitely on it.
package remote

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

	"github.com/yashwanthk/focusflow/internal/models"
)

// TransportError marks failures of the transport itself: connection refused,
// timeout, or a response body that is not JSON at all. Application errors
// (a JSON error payload with a non-2xx status) are returned as plain errors.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client is an HTTP client for the remote session/settings store.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL. timeout caps every
// request end to end, independent of per-call context deadlines.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListSessions fetches sessions, optionally filtered by user and/or date.
func (c *Client) ListSessions(ctx context.Context, userID models.User, date string) ([]models.Session, error) {
	q := url.Values{}
	if userID != "" {
		q.Set("userId", string(userID))
	}
	if date != "" {
		q.Set("date", date)
	}
	endpoint := c.baseURL + "/sessions"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var list models.SessionList
	if err := c.getJSON(ctx, "list sessions", endpoint, &list); err != nil {
		return nil, err
	}
	return list.Sessions, nil
}

// PushSession upserts one session on the server.
func (c *Client) PushSession(ctx context.Context, sess models.Session) error {
	return c.postJSON(ctx, "push session", c.baseURL+"/sessions", sess)
}

// DeleteSession removes a session by id. The server treats deletion of an
// absent id as success, so the call is idempotent.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	endpoint := c.baseURL + "/sessions/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "delete session", Err: err}
	}
	defer resp.Body.Close()
	return c.checkResponse("delete session", resp)
}

// Settings fetches every setting for one user.
func (c *Client) Settings(ctx context.Context, userID models.User) (map[string]json.RawMessage, error) {
	endpoint := c.baseURL + "/settings?userId=" + url.QueryEscape(string(userID))
	var out models.SettingsMap
	if err := c.getJSON(ctx, "list settings", endpoint, &out); err != nil {
		return nil, err
	}
	return out.Settings, nil
}

// PutSetting upserts one setting for one user.
func (c *Client) PutSetting(ctx context.Context, userID models.User, key string, value json.RawMessage) error {
	payload := models.Setting{UserID: userID, Key: key, Value: value}
	return c.postJSON(ctx, "put setting", c.baseURL+"/settings", payload)
}

// Health verifies the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "health", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &TransportError{Op: "health", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, op, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if err := c.checkResponse(op, resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, op, endpoint string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	return c.checkResponse(op, resp)
}

// checkResponse classifies a non-2xx response. A JSON body is an application
// error; anything else (an HTML error page, proxied source code) is a
// transport failure.
func (c *Client) checkResponse(op string, resp *http.Response) error {
	contentType := resp.Header.Get("Content-Type")
	isJSON := strings.Contains(contentType, "application/json")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if !isJSON {
			return &TransportError{Op: op, Err: fmt.Errorf("expected JSON but got %q", contentType)}
		}
		return nil
	}

	if !isJSON {
		return &TransportError{Op: op, Err: fmt.Errorf("status %d with content type %q", resp.StatusCode, contentType)}
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("remote %s: status %d: %s", op, resp.StatusCode, apiErr.Error)
	}
	return fmt.Errorf("remote %s: status %d", op, resp.StatusCode)
}
