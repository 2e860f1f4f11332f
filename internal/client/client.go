// Package client talks to the admission API on behalf of attendees and organizers.
package client

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

	dtocommon "fairpass/pkg/dto_common"
	"fairpass/pkg/zkp"
)

const maxArtifactSize = 512 << 20

// APIError is a non-2xx answer carrying the server's reason code.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Code, e.Status, e.Message)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = client
	}
}

// WithToken sets the organizer bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.Token = token
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func eventPath(eventId string, parts ...string) string {
	p := "/v1/events/" + url.PathEscape(eventId)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func (c *Client) Approve(ctx context.Context, eventId, commitment string) error {
	return c.doJSON(ctx, http.MethodPost, eventPath(eventId, "approve"), dtocommon.ApproveRequestDto{Commitment: commitment}, nil)
}

func (c *Client) CheckIn(ctx context.Context, eventId string, req dtocommon.CheckInRequestDto) error {
	return c.doJSON(ctx, http.MethodPost, eventPath(eventId, "checkin"), req, nil)
}

func (c *Client) Members(ctx context.Context, eventId string) (dtocommon.GroupMembersDto, error) {
	var out dtocommon.GroupMembersDto
	err := c.doJSON(ctx, http.MethodGet, eventPath(eventId, "members"), nil, &out)
	return out, err
}

func (c *Client) NullifierStatus(ctx context.Context, eventId, nullifier string) (dtocommon.NullifierStatusDto, error) {
	var out dtocommon.NullifierStatusDto
	err := c.doJSON(ctx, http.MethodGet, eventPath(eventId, "nullifiers", nullifier), nil, &out)
	return out, err
}

func (c *Client) DeleteEvent(ctx context.Context, eventId string) error {
	return c.doJSON(ctx, http.MethodDelete, eventPath(eventId), nil, nil)
}

// Snapshot returns the CBOR group snapshot and the CID the server claims for it.
func (c *Client) Snapshot(ctx context.Context, eventId string) ([]byte, string, error) {
	resp, err := c.do(ctx, http.MethodGet, eventPath(eventId, "snapshot"), nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read snapshot: %w", err)
	}
	return raw, resp.Header.Get("X-Snapshot-CID"), nil
}

func (c *Client) Artifacts(ctx context.Context) (dtocommon.ArtifactsDto, error) {
	var out dtocommon.ArtifactsDto
	err := c.doJSON(ctx, http.MethodGet, "/v1/artifacts", nil, &out)
	return out, err
}

// ProvingKeys downloads the proving key, checks it against the advertised digest
// and pairs it with a locally compiled circuit.
func (c *Client) ProvingKeys(ctx context.Context) (*zkp.Keys, error) {
	info, err := c.Artifacts(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodGet, "/v1/artifacts/pk", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactSize))
	if err != nil {
		return nil, fmt.Errorf("read proving key: %w", err)
	}
	if got := zkp.Digest(raw); got != info.ProvingKeyDigest {
		return nil, fmt.Errorf("proving key digest mismatch: got %s, advertised %s", got, info.ProvingKeyDigest)
	}

	pk, err := zkp.ReadProvingKey(raw)
	if err != nil {
		return nil, err
	}
	ccs, err := zkp.Compile(info.Depth)
	if err != nil {
		return nil, err
	}
	return &zkp.Keys{Depth: info.Depth, CCS: ccs, ProvingKey: pk}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// do sends the request and turns any non-2xx status into an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("admission API base URL is required")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	apiErr := &APIError{Status: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var dto dtocommon.ErrorDto
	if json.Unmarshal(raw, &dto) == nil && dto.Error != "" {
		apiErr.Code, apiErr.Message = dto.Error, dto.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return nil, apiErr
}
