// Package payment adapts the external payment provider's REST API. It only
// reads back sales that the storefront client already captured; nothing here
// persists state.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnavailable  = errors.New("payment provider unavailable")
	ErrSaleNotFound = errors.New("sale not found")
)

// Confirmation is the post-approval proof the checkout orchestrator consumes.
// ApprovedAmount is in cents.
type Confirmation struct {
	TransactionID  string
	ApprovedAmount int64
	State          string
}

func (c Confirmation) Approved() bool {
	switch strings.ToLower(c.State) {
	case "approved", "completed":
		return true
	}
	return false
}

type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

func NewClient(baseURL, clientID, clientSecret string) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type saleResponse struct {
	ID     string `json:"id"`
	State  string `json:"state"`
	Amount struct {
		Total    string `json:"total"`
		Currency string `json:"currency"`
	} `json:"amount"`
}

// VerifySale fetches the sale from the provider and returns its confirmation.
// The caller decides whether a non-approved state is acceptable.
func (c *Client) VerifySale(ctx context.Context, transactionID string) (*Confirmation, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("%w: empty transaction id", ErrSaleNotFound)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/v1/payments/sale/"+transactionID,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrSaleNotFound, transactionID)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var sale saleResponse
	if err := json.NewDecoder(resp.Body).Decode(&sale); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	amount, err := parseCents(sale.Amount.Total)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", sale.Amount.Total, err)
	}

	return &Confirmation{
		TransactionID:  sale.ID,
		ApprovedAmount: amount,
		State:          sale.State,
	}, nil
}

// parseCents converts a provider decimal string like "25.00" to cents. The
// sign is stripped up front so "-0.50" keeps it, and anything beyond two
// decimal places is an error rather than a silent truncation.
func parseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	whole, frac, found := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseUint(whole, 10, 63)
	if err != nil {
		return 0, err
	}
	cents := int64(units) * 100

	if found && frac != "" {
		if len(frac) > 2 {
			return 0, fmt.Errorf("more than two decimal places in %q", s)
		}
		for len(frac) < 2 {
			frac += "0"
		}
		f, err := strconv.ParseUint(frac, 10, 63)
		if err != nil {
			return 0, err
		}
		cents += int64(f)
	}

	if neg {
		return -cents, nil
	}
	return cents, nil
}
