package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TokenSource yields the session bearer token. It is consulted on every call
// so a token rotated mid-session is picked up on the next request.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource returning a fixed token. An empty token sends
// no Authorization header.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }

type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *zap.Logger
}

type Config struct {
	BaseURL string
	Tokens  TokenSource
	Timeout time.Duration
	Logger  *zap.Logger
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	tokens := cfg.Tokens
	if tokens == nil {
		tokens = StaticToken("")
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: cfg.Logger,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.authorize(req); err != nil {
		return nil, err
	}

	return c.send(req)
}

func (c *Client) authorize(req *http.Request) error {
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("failed to read session token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("api_request_network_error",
				zap.String("method", req.Method),
				zap.String("url", req.URL.String()),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if c.logger != nil {
		c.logger.Info("api_request_done",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Error string `json:"error"`
		}
		message := http.StatusText(resp.StatusCode)
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			message = errResp.Error
		}
		return nil, &APIError{Status: resp.StatusCode, Message: message}
	}

	return respBody, nil
}

type ListOptions struct {
	Limit  int
	Offset int
}

func (c *Client) ListTasks(ctx context.Context, opts ListOptions) ([]Task, error) {
	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}

	body, err := c.do(ctx, http.MethodGet, "/api/tasks", query, nil)
	if err != nil {
		return nil, err
	}
	return UnwrapTasks(body), nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	tasks := UnwrapTasks(body)
	if len(tasks) == 0 {
		return nil, &APIError{Status: http.StatusNotFound, Message: "task not found"}
	}
	return &tasks[0], nil
}

func (c *Client) CreateTask(ctx context.Context, patch TaskPatch) ([]Task, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/tasks/create", nil, patch)
	if err != nil {
		return nil, err
	}
	return UnwrapTasks(body), nil
}

func (c *Client) UpdateTask(ctx context.Context, patch TaskPatch) ([]Task, error) {
	body, err := c.do(ctx, http.MethodPut, "/api/tasks/update", nil, patch)
	if err != nil {
		return nil, err
	}
	return UnwrapTasks(body), nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) ([]Task, error) {
	query := url.Values{}
	query.Set("id", id)

	body, err := c.do(ctx, http.MethodDelete, "/api/tasks", query, nil)
	if err != nil {
		return nil, err
	}
	return UnwrapTasks(body), nil
}

func (c *Client) SearchTasks(ctx context.Context, q string) ([]Task, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/tasks/search", nil, map[string]string{"q": q})
	if err != nil {
		return nil, err
	}
	return UnwrapTasks(body), nil
}

func (c *Client) CompleteOnboarding(ctx context.Context, req OnboardingRequest) (*Profile, error) {
	body, err := c.do(ctx, http.MethodPatch, "/api/profile/onboarding", nil, req)
	if err != nil {
		return nil, err
	}

	var env struct {
		Data *Profile `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if env.Data == nil {
		return nil, &APIError{Status: http.StatusInternalServerError, Message: "empty profile response"}
	}
	return env.Data, nil
}

// UploadAvatar posts a multipart form with the avatar under the `avatar`
// field and returns the stored object path plus a signed URL for it.
func (c *Client) UploadAvatar(ctx context.Context, filename string, content io.Reader) (*AvatarUpload, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("avatar", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read avatar: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/profile/avatar", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := c.authorize(req); err != nil {
		return nil, err
	}

	body, err := c.send(req)
	if err != nil {
		return nil, err
	}

	var upload AvatarUpload
	if err := json.Unmarshal(body, &upload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &upload, nil
}

// AvatarURL fetches a fresh signed URL for the caller's stored avatar.
// It returns nil without error when no avatar is set.
func (c *Client) AvatarURL(ctx context.Context, ttlSeconds int) (*SignedAvatar, error) {
	query := url.Values{}
	if ttlSeconds > 0 {
		query.Set("ttl", strconv.Itoa(ttlSeconds))
	}

	body, err := c.do(ctx, http.MethodGet, "/api/profile/avatar-url", query, nil)
	if err != nil {
		return nil, err
	}

	var env struct {
		Data *SignedAvatar `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return env.Data, nil
}
