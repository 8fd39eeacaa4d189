package certissuer

// Package certissuer calls the external certificate-of-authenticity service.
// Certificate rendering (layout, PDF output) is the collaborator's concern;
// we send order facts and receive an opaque certificate ID.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/solenne/boutique/internal/domain/model"
)

// ClientConfig holds configuration for the issuer client.
type ClientConfig struct {
	IssuerURL  string
	Timeout    time.Duration
	HTTPClient *http.Client // Optional
}

// Client implements core.CertificateIssuer over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient constructs an issuer client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{url: cfg.IssuerURL, httpClient: httpClient}, nil
}

// issueRequest is the wire shape sent to the certificate service.
type issueRequest struct {
	OrderID string      `json:"order_id"`
	UserID  string      `json:"user_id"`
	Total   float64     `json:"total"`
	Lines   []issueLine `json:"lines"`
}

type issueLine struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
}

type issueResponse struct {
	CertificateID string `json:"certificate_id"`
}

// Issue requests a certificate for the order and returns its ID.
func (c *Client) Issue(ctx context.Context, order *model.Order, lines []model.OrderLine) (string, error) {
	if order == nil {
		return "", errors.New("order is required")
	}

	payload := issueRequest{
		OrderID: order.ID,
		UserID:  order.UserID,
		Total:   order.Total,
		Lines:   make([]issueLine, 0, len(lines)),
	}
	for _, l := range lines {
		payload.Lines = append(payload.Lines, issueLine{ProductID: l.ProductID, Title: l.Title, Price: l.Price})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal issue request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build issue request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("issue certificate: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("certificate service returned status %d", resp.StatusCode)
	}

	var out issueResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&out); decodeErr != nil {
		return "", fmt.Errorf("decode issue response: %w", decodeErr)
	}
	if out.CertificateID == "" {
		return "", errors.New("certificate service returned empty certificate ID")
	}

	return out.CertificateID, nil
}
