// package models defines the data model for the song-request client
package models

// Song represents a catalog entry served by the backend.
//
// Songs are server-owned; the client only tracks membership in the local
// requested-song set.
type Song struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Author     string   `json:"author"`
	Image      string   `json:"image"`
	Requesters []string `json:"requesters,omitempty"`
}

// QueueEntry represents one row of the live request queue.
type QueueEntry struct {
	SongID      int      `json:"song_id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Image       string   `json:"image"`
	Requesters  []string `json:"requesters"`
	RequestTime string   `json:"request_time"`
}

// UserRequest represents one of the user's own outstanding requests.
type UserRequest struct {
	SongID int    `json:"song_id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Image  string `json:"image"`
}

// Gig represents the venue's active live-performance session.
type Gig struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	TipEnabled *bool  `json:"tip_enabled"`
}

// TipsEnabled reports whether tipping is on for this gig.
//
// The backend omits the flag on older gigs; absence means enabled.
func (g *Gig) TipsEnabled() bool {
	if g == nil || g.TipEnabled == nil {
		return true
	}
	return *g.TipEnabled
}

// TipIntent is a server-created, not-yet-captured record of an optional
// monetary contribution. It lives for the duration of one checkout and is
// consumed by at most one capture call.
type TipIntent struct {
	ID             string  `json:"id"`
	AmountEuros    float64 `json:"amount_euros"`
	Currency       string  `json:"currency"`
	PayPalClientID string  `json:"paypal_client_id,omitempty"`
	PayPalMode     string  `json:"paypal_mode,omitempty"`
	PayPalOrderID  string  `json:"paypal_order_id,omitempty"`
}

// CurrencyCode returns the intent currency, defaulting to EUR.
func (t *TipIntent) CurrencyCode() string {
	if t == nil || t.Currency == "" {
		return "EUR"
	}
	return t.Currency
}

// HasCredentials reports whether the intent carries enough PayPal
// configuration to initialize the provider client.
func (t *TipIntent) HasCredentials() bool {
	return t != nil && t.PayPalClientID != ""
}
