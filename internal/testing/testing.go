// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/encorelive/encore/internal/models"
	"github.com/encorelive/encore/internal/services"
)

// MockBackend is a configurable test double for [services.Backend].
// Zero value answers every call with empty data; set the function fields
// to script behavior per test.
type MockBackend struct {
	SearchSongsFunc       func(ctx context.Context, params services.SearchParams) ([]models.Song, error)
	RequestSongFunc       func(ctx context.Context, songID int, user string, tipAmount float64) (*services.RequestOutcome, error)
	QueueFunc             func(ctx context.Context) ([]models.QueueEntry, error)
	UserRequestsFunc      func(ctx context.Context) ([]models.UserRequest, error)
	RequestedSongIDsFunc  func(ctx context.Context) ([]int, error)
	DeleteRequestFunc     func(ctx context.Context, songID int, user string) (string, error)
	DeleteSongFunc        func(ctx context.Context, songID int) error
	DeleteAllRequestsFunc func(ctx context.Context) error
	UpdateMaxRequestsFunc func(ctx context.Context, max int) error
	VenueNameFunc         func(ctx context.Context) (string, error)
	ChangeLanguageFunc    func(ctx context.Context, lang string) error
	ActiveGigFunc         func(ctx context.Context) (*models.Gig, error)
	TipsEnabledFunc       func(ctx context.Context) bool
	CheckSessionFunc      func(ctx context.Context) (*services.SessionStatus, error)
	CreatePayPalOrderFunc func(ctx context.Context, tipIntentID string) (*services.OrderCredentials, error)
	ConfirmCaptureFunc    func(ctx context.Context, tipIntentID, orderID string) error
	CreateTipFunc         func(ctx context.Context, amount float64) (*services.RequestOutcome, error)
}

func (m *MockBackend) SearchSongs(ctx context.Context, params services.SearchParams) ([]models.Song, error) {
	if m.SearchSongsFunc != nil {
		return m.SearchSongsFunc(ctx, params)
	}
	return []models.Song{}, nil
}

func (m *MockBackend) RequestSong(ctx context.Context, songID int, user string, tipAmount float64) (*services.RequestOutcome, error) {
	if m.RequestSongFunc != nil {
		return m.RequestSongFunc(ctx, songID, user, tipAmount)
	}
	return &services.RequestOutcome{Success: true, OK: true, StatusCode: http.StatusOK}, nil
}

func (m *MockBackend) Queue(ctx context.Context) ([]models.QueueEntry, error) {
	if m.QueueFunc != nil {
		return m.QueueFunc(ctx)
	}
	return []models.QueueEntry{}, nil
}

func (m *MockBackend) UserRequests(ctx context.Context) ([]models.UserRequest, error) {
	if m.UserRequestsFunc != nil {
		return m.UserRequestsFunc(ctx)
	}
	return []models.UserRequest{}, nil
}

func (m *MockBackend) RequestedSongIDs(ctx context.Context) ([]int, error) {
	if m.RequestedSongIDsFunc != nil {
		return m.RequestedSongIDsFunc(ctx)
	}
	return []int{}, nil
}

func (m *MockBackend) DeleteRequest(ctx context.Context, songID int, user string) (string, error) {
	if m.DeleteRequestFunc != nil {
		return m.DeleteRequestFunc(ctx, songID, user)
	}
	return "Song removed from queue successfully", nil
}

func (m *MockBackend) DeleteSong(ctx context.Context, songID int) error {
	if m.DeleteSongFunc != nil {
		return m.DeleteSongFunc(ctx, songID)
	}
	return nil
}

func (m *MockBackend) DeleteAllRequests(ctx context.Context) error {
	if m.DeleteAllRequestsFunc != nil {
		return m.DeleteAllRequestsFunc(ctx)
	}
	return nil
}

func (m *MockBackend) UpdateMaxRequests(ctx context.Context, max int) error {
	if m.UpdateMaxRequestsFunc != nil {
		return m.UpdateMaxRequestsFunc(ctx, max)
	}
	return nil
}

func (m *MockBackend) VenueName(ctx context.Context) (string, error) {
	if m.VenueNameFunc != nil {
		return m.VenueNameFunc(ctx)
	}
	return "Test Venue", nil
}

func (m *MockBackend) ChangeLanguage(ctx context.Context, lang string) error {
	if m.ChangeLanguageFunc != nil {
		return m.ChangeLanguageFunc(ctx, lang)
	}
	return nil
}

func (m *MockBackend) ActiveGig(ctx context.Context) (*models.Gig, error) {
	if m.ActiveGigFunc != nil {
		return m.ActiveGigFunc(ctx)
	}
	return &models.Gig{ID: 1, Name: "Test Gig"}, nil
}

func (m *MockBackend) TipsEnabled(ctx context.Context) bool {
	if m.TipsEnabledFunc != nil {
		return m.TipsEnabledFunc(ctx)
	}
	return true
}

func (m *MockBackend) CheckSession(ctx context.Context) (*services.SessionStatus, error) {
	if m.CheckSessionFunc != nil {
		return m.CheckSessionFunc(ctx)
	}
	return &services.SessionStatus{Status: "valid"}, nil
}

func (m *MockBackend) CreatePayPalOrder(ctx context.Context, tipIntentID string) (*services.OrderCredentials, error) {
	if m.CreatePayPalOrderFunc != nil {
		return m.CreatePayPalOrderFunc(ctx, tipIntentID)
	}
	return &services.OrderCredentials{Success: true, OrderID: "ORD-TEST"}, nil
}

func (m *MockBackend) ConfirmCapture(ctx context.Context, tipIntentID, orderID string) error {
	if m.ConfirmCaptureFunc != nil {
		return m.ConfirmCaptureFunc(ctx, tipIntentID, orderID)
	}
	return nil
}

func (m *MockBackend) CreateTip(ctx context.Context, amount float64) (*services.RequestOutcome, error) {
	if m.CreateTipFunc != nil {
		return m.CreateTipFunc(ctx, amount)
	}
	return &services.RequestOutcome{Success: true, OK: true, StatusCode: http.StatusOK}, nil
}

// MockProvider is a test double for [services.Provider].
type MockProvider struct {
	CreateOrderFunc  func(ctx context.Context, amount float64, currency string) (string, error)
	ApprovalLinkFunc func(ctx context.Context, orderID string) (string, error)
	CaptureOrderFunc func(ctx context.Context, orderID string) error
}

func (m *MockProvider) CreateOrder(ctx context.Context, amount float64, currency string) (string, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, amount, currency)
	}
	return "ORD-TEST", nil
}

func (m *MockProvider) ApprovalLink(ctx context.Context, orderID string) (string, error) {
	if m.ApprovalLinkFunc != nil {
		return m.ApprovalLinkFunc(ctx, orderID)
	}
	return "https://example.com/approve/" + orderID, nil
}

func (m *MockProvider) CaptureOrder(ctx context.Context, orderID string) error {
	if m.CaptureOrderFunc != nil {
		return m.CaptureOrderFunc(ctx, orderID)
	}
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
