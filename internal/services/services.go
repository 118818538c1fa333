// package services defines clients for the song-request backend and the payment provider
package services

import (
	"context"

	"github.com/encorelive/encore/internal/models"
)

// Backend defines the operations the song-request backend exposes to this
// client. [VenueService] is the HTTP implementation; tests substitute a mock.
type Backend interface {
	// SearchSongs fetches one page of the catalog for the given filters.
	SearchSongs(ctx context.Context, params SearchParams) ([]models.Song, error)

	// RequestSong submits a song request with an optional tip amount (0 = no tip).
	RequestSong(ctx context.Context, songID int, user string, tipAmount float64) (*RequestOutcome, error)

	// Queue fetches the current request queue.
	Queue(ctx context.Context) ([]models.QueueEntry, error)

	// UserRequests fetches the user's own outstanding requests.
	UserRequests(ctx context.Context) ([]models.UserRequest, error)

	// RequestedSongIDs fetches the ids of songs the user has requested and
	// that are still pending.
	RequestedSongIDs(ctx context.Context) ([]int, error)

	// DeleteRequest removes one of the user's requests and returns the
	// server's confirmation message.
	DeleteRequest(ctx context.Context, songID int, user string) (string, error)

	// DeleteSong removes a song from the queue (admin).
	DeleteSong(ctx context.Context, songID int) error

	// DeleteAllRequests clears the queue (admin).
	DeleteAllRequests(ctx context.Context) error

	// UpdateMaxRequests sets the per-user request cap (admin).
	UpdateMaxRequests(ctx context.Context, max int) error

	// VenueName fetches the venue display name.
	VenueName(ctx context.Context) (string, error)

	// ChangeLanguage syncs the server-side UI language.
	ChangeLanguage(ctx context.Context, lang string) error

	// ActiveGig fetches the tenant's active gig, if any.
	ActiveGig(ctx context.Context) (*models.Gig, error)

	// TipsEnabled reports whether the active gig accepts tips.
	// Defaults to enabled when no tenant, no gig, or on error.
	TipsEnabled(ctx context.Context) bool

	// CheckSession validates the client session with the backend.
	CheckSession(ctx context.Context) (*SessionStatus, error)

	// CreatePayPalOrder asks the backend for PayPal credentials and a
	// server-created order for the given tip intent.
	CreatePayPalOrder(ctx context.Context, tipIntentID string) (*OrderCredentials, error)

	// ConfirmCapture reports a captured PayPal order back to the backend.
	ConfirmCapture(ctx context.Context, tipIntentID, orderID string) error

	// CreateTip creates a standalone tip intent not tied to any song.
	CreateTip(ctx context.Context, amount float64) (*RequestOutcome, error)
}

// Provider abstracts the payment provider driven during checkout.
type Provider interface {
	// CreateOrder creates an order from amount and currency. Used when the
	// backend supplied no order id.
	CreateOrder(ctx context.Context, amount float64, currency string) (string, error)

	// ApprovalLink returns the URL the payer opens to approve the order.
	ApprovalLink(ctx context.Context, orderID string) (string, error)

	// CaptureOrder captures an approved order.
	CaptureOrder(ctx context.Context, orderID string) error
}
