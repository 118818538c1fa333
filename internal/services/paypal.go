// PayPal REST implementation of [Provider]
//
// Order and capture types based on https://developer.paypal.com/docs/api/orders/v2/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/encorelive/encore/internal/shared"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	paypalLiveBaseURL    = "https://api-m.paypal.com"
	paypalSandboxBaseURL = "https://api-m.sandbox.paypal.com"

	// providerInitTimeout bounds the first token fetch. A provider that has
	// not answered by then is treated as unavailable for the whole session.
	providerInitTimeout = 10 * time.Second
)

type orderAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnit struct {
	Amount orderAmount `json:"amount"`
}

type orderLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type orderResponse struct {
	ID     string      `json:"id"`
	Status string      `json:"status"`
	Links  []orderLink `json:"links"`
}

// PayPalService implements [Provider] against the PayPal Orders v2 API.
// Uses [clientcredentials] for authentication; the token client is built
// once and reused for every call.
type PayPalService struct {
	baseURL    string
	config     *clientcredentials.Config
	httpClient *http.Client

	initOnce sync.Once
	initErr  error
}

var _ Provider = (*PayPalService)(nil)

// NewPayPalService creates a provider client for the given credentials.
// Mode selects the environment; anything other than "live" is sandbox.
func NewPayPalService(clientID, clientSecret, mode string) (*PayPalService, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: paypal client id and secret are required", shared.ErrMissingCredentials)
	}

	baseURL := paypalSandboxBaseURL
	if strings.EqualFold(mode, "live") {
		baseURL = paypalLiveBaseURL
	}

	return &PayPalService{
		baseURL: baseURL,
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     baseURL + "/v1/oauth2/token",
		},
	}, nil
}

// init fetches the first access token and keeps the authenticated client.
// Runs at most once per process; later calls reuse the outcome.
func (s *PayPalService) init(ctx context.Context) error {
	s.initOnce.Do(func() {
		initCtx, cancel := context.WithTimeout(ctx, providerInitTimeout)
		defer cancel()

		if _, err := s.config.Token(initCtx); err != nil {
			if initCtx.Err() == context.DeadlineExceeded {
				s.initErr = fmt.Errorf("%w: paypal token fetch timed out", shared.ErrProviderTimeout)
				return
			}
			s.initErr = fmt.Errorf("failed to authenticate with paypal: %w", err)
			return
		}

		s.httpClient = s.config.Client(context.Background())
	})

	return s.initErr
}

// doRequest performs an authenticated request against the Orders API.
func (s *PayPalService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if err := s.init(ctx); err != nil {
		return err
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if method == http.MethodPost {
		req.Header.Set("PayPal-Request-Id", shared.GenerateID())
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		if resp.StatusCode == http.StatusUnprocessableEntity && bytes.Contains(data, []byte("ORDER_ALREADY_CAPTURED")) {
			return fmt.Errorf("%w: %s", shared.ErrTipConsumed, endpoint)
		}
		return fmt.Errorf("paypal API error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// CreateOrder creates a one-unit capture order and returns its id.
func (s *PayPalService) CreateOrder(ctx context.Context, amount float64, currency string) (string, error) {
	if currency == "" {
		currency = "EUR"
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []purchaseUnit{
			{Amount: orderAmount{
				CurrencyCode: currency,
				Value:        fmt.Sprintf("%.2f", amount),
			}},
		},
	}

	var order orderResponse
	if err := s.doRequest(ctx, http.MethodPost, "/v2/checkout/orders", payload, &order); err != nil {
		return "", err
	}
	if order.ID == "" {
		return "", fmt.Errorf("%w: order response missing id", shared.ErrPaymentUnavailable)
	}
	return order.ID, nil
}

// ApprovalLink returns the URL the payer opens to approve the order.
func (s *PayPalService) ApprovalLink(ctx context.Context, orderID string) (string, error) {
	var order orderResponse
	endpoint := "/v2/checkout/orders/" + orderID
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &order); err != nil {
		return "", err
	}

	for _, link := range order.Links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			return link.Href, nil
		}
	}
	return "", fmt.Errorf("%w: order %s has no approval link", shared.ErrPaymentUnavailable, orderID)
}

// CaptureOrder captures an approved order.
func (s *PayPalService) CaptureOrder(ctx context.Context, orderID string) error {
	var order orderResponse
	endpoint := "/v2/checkout/orders/" + orderID + "/capture"
	if err := s.doRequest(ctx, http.MethodPost, endpoint, struct{}{}, &order); err != nil {
		return err
	}

	if order.Status != "COMPLETED" {
		return fmt.Errorf("%w: capture ended with status %q", shared.ErrPaymentUnavailable, order.Status)
	}
	return nil
}
