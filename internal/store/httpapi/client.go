package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"billed/internal/core"
	"billed/internal/store"
)

// Client talks to the remote bills API. Any non-2xx response becomes a
// store.NetworkError whose message is the API's error convention
// ("Erreur <code>"), surfaced to the user verbatim.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// List implements store.BillLister.
func (c *Client) List(ctx context.Context, email string) ([]core.Bill, error) {
	endpoint := fmt.Sprintf("%s/bills?email=%s", c.baseURL, url.QueryEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}

	var bills []core.Bill
	if err := c.do(req, "list", &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// Create implements store.BillCreator.
func (c *Client) Create(ctx context.Context, bill core.Bill) (core.Bill, error) {
	body, err := json.Marshal(bill)
	if err != nil {
		return core.Bill{}, fmt.Errorf("encode bill: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bills", bytes.NewReader(body))
	if err != nil {
		return core.Bill{}, fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var created core.Bill
	if err := c.do(req, "create", &created); err != nil {
		return core.Bill{}, err
	}
	return created, nil
}

// Update implements store.BillUpdater.
func (c *Client) Update(ctx context.Context, key string, bill core.Bill) (core.Bill, error) {
	body, err := json.Marshal(bill)
	if err != nil {
		return core.Bill{}, fmt.Errorf("encode bill: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bills/%s", c.baseURL, url.PathEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return core.Bill{}, fmt.Errorf("build update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var updated core.Bill
	if err := c.do(req, "update", &updated); err != nil {
		return core.Bill{}, err
	}
	return updated, nil
}

// UploadReceipt implements store.ReceiptUploader. The file travels as
// multipart form data together with the owning email, matching the
// API's upload channel.
func (c *Client) UploadReceipt(ctx context.Context, email string, att core.Attachment) (store.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", att.FileName)
	if err != nil {
		return store.UploadResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(att.Data); err != nil {
		return store.UploadResult{}, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.WriteField("email", email); err != nil {
		return store.UploadResult{}, fmt.Errorf("write email field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return store.UploadResult{}, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bills/receipts", &buf)
	if err != nil {
		return store.UploadResult{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var res store.UploadResult
	if err := c.do(req, "upload", &res); err != nil {
		return store.UploadResult{}, err
	}
	return res, nil
}

func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &store.NetworkError{Op: op, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &store.NetworkError{Op: op, Message: fmt.Sprintf("Erreur %d", resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}
