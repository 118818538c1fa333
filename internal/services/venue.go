// HTTP implementation of [Backend] for the song-request service
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/encorelive/encore/internal/models"
	"github.com/encorelive/encore/internal/shared"
)

// VenueService talks to one tenant's song-request backend over HTTP.
type VenueService struct {
	baseURL    string
	tenant     string
	httpClient *http.Client
	admin      *shared.SessionHeaders
}

var _ Backend = (*VenueService)(nil)

// NewVenueService creates a backend client for the given base URL and tenant slug.
func NewVenueService(baseURL, tenant string, client *http.Client) *VenueService {
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &VenueService{
		baseURL:    baseURL,
		tenant:     tenant,
		httpClient: client,
	}
}

// SetAdminSession attaches a browser admin session (parsed from a cURL
// command) to every subsequent request.
func (s *VenueService) SetAdminSession(headers *shared.SessionHeaders) {
	s.admin = headers
}

// Tenant returns the tenant slug this client is bound to.
func (s *VenueService) Tenant() string {
	return s.tenant
}

// SearchParams holds the catalog filter state for one search call.
type SearchParams struct {
	Query     string
	Language  string // all, it, en
	Letter    string // starting letter filter, "All" for none
	SortBy    string // title or author
	SortOrder string // asc or desc
	Page      int
	Username  string
}

// Values encodes the parameters the way /search_songs expects them.
func (p SearchParams) Values() url.Values {
	if p.Language == "" {
		p.Language = "all"
	}
	if p.Letter == "" {
		p.Letter = "All"
	}
	if p.SortBy == "" {
		p.SortBy = "title"
	}
	if p.SortOrder == "" {
		p.SortOrder = "asc"
	}
	if p.Page < 1 {
		p.Page = 1
	}

	v := url.Values{}
	v.Set("s", p.Query)
	v.Set("language", p.Language)
	v.Set("letter", p.Letter)
	v.Set("sortBy", p.SortBy)
	v.Set("sortOrder", p.SortOrder)
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("username", p.Username)
	return v
}

// RequestOutcome is the backend's reply to a request or tip submission.
//
// A non-nil outcome may still describe a business failure; callers check
// Success and the error text. Redirect pre-empts all other handling.
type RequestOutcome struct {
	Success        bool              `json:"success"`
	Redirect       string            `json:"redirect,omitempty"`
	Error          string            `json:"error,omitempty"`
	Message        string            `json:"message,omitempty"`
	TipIntent      *models.TipIntent `json:"tip_intent,omitempty"`
	PayPalClientID string            `json:"paypal_client_id,omitempty"`
	PayPalMode     string            `json:"paypal_mode,omitempty"`

	StatusCode int  `json:"-"`
	OK         bool `json:"-"`
}

// ErrorText returns the server-provided error text, falling back to the
// message field and then to the HTTP status.
func (o *RequestOutcome) ErrorText() string {
	if o.Error != "" {
		return o.Error
	}
	if o.Message != "" {
		return o.Message
	}
	return fmt.Sprintf("request failed with status %d", o.StatusCode)
}

// Intent returns the tip intent with any PayPal credentials from the same
// response merged in, or nil when the outcome carries none.
func (o *RequestOutcome) Intent() *models.TipIntent {
	if o.TipIntent == nil {
		return nil
	}

	intent := *o.TipIntent
	if o.PayPalClientID != "" {
		intent.PayPalClientID = o.PayPalClientID
	}
	if o.PayPalMode != "" {
		intent.PayPalMode = o.PayPalMode
	}
	return &intent
}

// SessionStatus is the backend's reply to /check_session.
type SessionStatus struct {
	Status   string `json:"status"`
	Redirect string `json:"redirect,omitempty"`
}

// Valid reports whether the session is usable without a redirect.
func (s *SessionStatus) Valid() bool {
	return s != nil && s.Redirect == "" && s.Status == "valid"
}

// OrderCredentials is the backend's reply to /api/create_paypal_order.
type OrderCredentials struct {
	Success        bool   `json:"success"`
	PayPalClientID string `json:"paypal_client_id"`
	PayPalMode     string `json:"paypal_mode"`
	OrderID        string `json:"order_id"`
	Error          string `json:"error,omitempty"`
}

// newRequest builds a request with the admin session applied when present.
func (s *VenueService) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.admin != nil {
		s.admin.Apply(req)
	}
	return req, nil
}

// doJSON performs the request and decodes a 2xx JSON body into result.
//
// Non-2xx statuses are transport-level failures here; endpoints whose error
// bodies carry business meaning go through doOutcome instead.
func (s *VenueService) doJSON(ctx context.Context, method, path string, body []byte, result any) error {
	req, err := s.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s returned status %d", shared.ErrAPIRequest, method, path, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// doOutcome performs the request and decodes the body into a RequestOutcome
// regardless of status, so server-reported business errors surface with
// their text instead of a bare status code.
func (s *VenueService) doOutcome(ctx context.Context, method, path string, body []byte) (*RequestOutcome, error) {
	req, err := s.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	outcome := &RequestOutcome{
		StatusCode: resp.StatusCode,
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, outcome); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return outcome, nil
}

// Queue fetches the current request queue.
func (s *VenueService) Queue(ctx context.Context) ([]models.QueueEntry, error) {
	var queue []models.QueueEntry
	if err := s.doJSON(ctx, http.MethodGet, "/get_queue", nil, &queue); err != nil {
		return nil, err
	}
	return queue, nil
}

// DeleteAllRequests clears the whole queue.
func (s *VenueService) DeleteAllRequests(ctx context.Context) error {
	return s.doJSON(ctx, http.MethodDelete, "/delete_all_requests", nil, nil)
}

// DeleteSong removes a song from the queue by id.
func (s *VenueService) DeleteSong(ctx context.Context, songID int) error {
	req, err := s.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/delete_song/%d", songID), nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: id %d", shared.ErrSongNotFound, songID)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: delete_song returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}

// UpdateMaxRequests sets the per-user request cap.
func (s *VenueService) UpdateMaxRequests(ctx context.Context, max int) error {
	payload, err := json.Marshal(map[string]int{"max_requests": max})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return s.doJSON(ctx, http.MethodPost, "/update_max_requests", payload, nil)
}

// SearchSongs fetches one page of catalog results.
func (s *VenueService) SearchSongs(ctx context.Context, params SearchParams) ([]models.Song, error) {
	var response struct {
		Songs []models.Song `json:"songs"`
	}

	path := "/search_songs?" + params.Values().Encode()
	if err := s.doJSON(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, err
	}
	return response.Songs, nil
}

// UserRequests fetches the user's outstanding requests.
func (s *VenueService) UserRequests(ctx context.Context) ([]models.UserRequest, error) {
	var requests []models.UserRequest
	if err := s.doJSON(ctx, http.MethodGet, "/get_user_requests", nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// RequestedSongIDs fetches the ids of the user's still-pending requests.
func (s *VenueService) RequestedSongIDs(ctx context.Context) ([]int, error) {
	var response struct {
		RequestedSongIDs []int `json:"requested_song_ids"`
	}
	if err := s.doJSON(ctx, http.MethodGet, "/api/user_requested_song_ids", nil, &response); err != nil {
		return nil, err
	}
	return response.RequestedSongIDs, nil
}

// RequestSong submits a request for songID with an optional tip amount.
// Pass tipAmount 0 for a free request.
func (s *VenueService) RequestSong(ctx context.Context, songID int, user string, tipAmount float64) (*RequestOutcome, error) {
	payload := map[string]any{"user": user}
	if tipAmount > 0 {
		payload["tip_amount"] = tipAmount
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return s.doOutcome(ctx, http.MethodPost, fmt.Sprintf("/request_song/%d", songID), body)
}

// DeleteRequest removes one of the user's requests and returns the server's
// confirmation message.
func (s *VenueService) DeleteRequest(ctx context.Context, songID int, user string) (string, error) {
	body, err := json.Marshal(map[string]string{"user": user})
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	outcome, err := s.doOutcome(ctx, http.MethodPost, fmt.Sprintf("/delete_request/%d", songID), body)
	if err != nil {
		return "", err
	}
	if !outcome.OK {
		return outcome.Message, fmt.Errorf("%w: %s", shared.ErrAPIRequest, outcome.ErrorText())
	}
	return outcome.Message, nil
}

// VenueName fetches the venue display name.
func (s *VenueService) VenueName(ctx context.Context) (string, error) {
	var response struct {
		VenueName string `json:"venue_name"`
	}
	if err := s.doJSON(ctx, http.MethodGet, "/get_venue_name", nil, &response); err != nil {
		return "", err
	}
	return response.VenueName, nil
}

// ChangeLanguage syncs the server-side UI language with the local setting.
func (s *VenueService) ChangeLanguage(ctx context.Context, lang string) error {
	payload, err := json.Marshal(map[string]string{"language": lang})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return s.doJSON(ctx, http.MethodPost, "/change_language/"+url.PathEscape(lang), payload, nil)
}

// ActiveGig fetches the tenant's active gig.
func (s *VenueService) ActiveGig(ctx context.Context) (*models.Gig, error) {
	if s.tenant == "" {
		return nil, shared.ErrGigNotActive
	}

	var response struct {
		Success bool        `json:"success"`
		Gig     *models.Gig `json:"gig"`
	}
	path := "/" + url.PathEscape(s.tenant) + "/get_active_gig"
	if err := s.doJSON(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, err
	}
	if !response.Success || response.Gig == nil {
		return nil, shared.ErrGigNotActive
	}
	return response.Gig, nil
}

// TipsEnabled reports whether the active gig accepts tips.
//
// Missing tenant, missing gig, and fetch errors all default to enabled,
// matching the backend's permissive behavior.
func (s *VenueService) TipsEnabled(ctx context.Context) bool {
	gig, err := s.ActiveGig(ctx)
	if err != nil {
		return true
	}
	return gig.TipsEnabled()
}

// CheckSession validates the client session with the backend.
func (s *VenueService) CheckSession(ctx context.Context) (*SessionStatus, error) {
	var status SessionStatus
	if err := s.doJSON(ctx, http.MethodGet, "/check_session", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// CreatePayPalOrder asks the backend for PayPal credentials and a
// server-created order id for the given tip intent.
func (s *VenueService) CreatePayPalOrder(ctx context.Context, tipIntentID string) (*OrderCredentials, error) {
	body, err := json.Marshal(map[string]string{"tip_intent_id": tipIntentID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	var creds OrderCredentials
	if err := s.doJSON(ctx, http.MethodPost, "/api/create_paypal_order", body, &creds); err != nil {
		return nil, err
	}
	if !creds.Success {
		if creds.Error != "" {
			return nil, fmt.Errorf("%w: %s", shared.ErrPaymentUnavailable, creds.Error)
		}
		return nil, shared.ErrPaymentUnavailable
	}
	return &creds, nil
}

// ConfirmCapture reports a captured order back to the backend by tip-intent
// id and order id.
func (s *VenueService) ConfirmCapture(ctx context.Context, tipIntentID, orderID string) error {
	body, err := json.Marshal(map[string]string{
		"tip_intent_id": tipIntentID,
		"order_id":      orderID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	outcome, err := s.doOutcome(ctx, http.MethodPost, "/api/tips/paypal/capture", body)
	if err != nil {
		return err
	}
	if !outcome.OK || !outcome.Success {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, outcome.ErrorText())
	}
	return nil
}

// CreateTip creates a standalone tip intent not tied to any song.
func (s *VenueService) CreateTip(ctx context.Context, amount float64) (*RequestOutcome, error) {
	body, err := json.Marshal(map[string]float64{"tip_amount": amount})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return s.doOutcome(ctx, http.MethodPost, "/api/create_tip", body)
}
