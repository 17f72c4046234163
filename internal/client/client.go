// Package client is the HTTP collaborator used by review-grid frontends:
// it submits finalized CSV batches to the bills API and fetches persisted
// records back as header-keyed rows.
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
	"time"

	"github.com/Sustained-Sync-API/cs4850/internal/core"
)

// Client talks to a running bills API server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// apiError mirrors the server's JSON error body.
type apiError struct {
	Error string `json:"error"`
}

// Upload submits a CSV file as multipart form data and returns the upsert
// outcome. Implements core.Uploader.
func (c *Client) Upload(ctx context.Context, filename, csvText string) (*core.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := part.Write([]byte(csvText)); err != nil {
		return nil, fmt.Errorf("write csv part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/bills/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var result core.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &result, nil
}

// BillPage is one page of persisted bills as returned by the server.
type BillPage struct {
	Results    []core.Record  `json:"results"`
	Count      int            `json:"count"`
	TotalPages int            `json:"total_pages"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Sort       core.SortState `json:"sort"`
}

// FetchBills retrieves one page of bills sorted by the given state. A zero
// SortState uses the server default.
func (c *Client) FetchBills(ctx context.Context, state core.SortState, page, pageSize int) (*BillPage, error) {
	q := url.Values{}
	if state.Key != "" {
		q.Set("sort", state.Key)
		q.Set("dir", state.Dir)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}

	u := c.baseURL + "/api/bills"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bills: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var bp BillPage
	if err := json.NewDecoder(resp.Body).Decode(&bp); err != nil {
		return nil, fmt.Errorf("decode bills response: %w", err)
	}
	return &bp, nil
}

// FetchTemplate downloads the CSV upload template.
func (c *Client) FetchTemplate(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/template", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch template: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}
	return string(data), nil
}

func decodeError(resp *http.Response) error {
	var ae apiError
	if err := json.NewDecoder(resp.Body).Decode(&ae); err == nil && ae.Error != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, ae.Error)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}
