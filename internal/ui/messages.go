package ui

import (
	"time"

	"github.com/encorelive/encore/internal/models"
	"github.com/encorelive/encore/internal/services"
	"github.com/encorelive/encore/internal/tipflow"
)

type errMsg struct{ err error }

type venueNameMsg struct {
	name string
	err  error
}

type sessionCheckedMsg struct {
	status *services.SessionStatus
	err    error
}

type songsFetchedMsg struct {
	songs   []models.Song
	page    int
	replace bool
	err     error
}

type queueFetchedMsg struct {
	entries []models.QueueEntry
	err     error
}

type userRequestsMsg struct {
	requests []models.UserRequest
	err      error
}

type requestedIDsMsg struct {
	ids []int
	err error
}

type requestRemovedMsg struct {
	message string
	err     error
}

type queueEntryDeletedMsg struct{ err error }

type tipsEnabledMsg struct{ enabled bool }

// outcomeMsg carries the reply to a song request or tip-intent creation.
type outcomeMsg struct {
	outcome *services.RequestOutcome
	err     error
}

type orderCredsMsg struct {
	creds *services.OrderCredentials
	err   error
}

type orderCreatedMsg struct {
	orderID string
	err     error
}

type approvalOpenedMsg struct {
	url string
	err error
}

type captureMsg struct{ err error }

// requestSucceededMsg fires once per successful request after the dialog
// closes; the root model removes the song and refreshes the panel.
type requestSucceededMsg struct{ songID int }

// flowTimerMsg fires when a scheduled tipflow action's delay elapses.
type flowTimerMsg struct{ kind tipflow.ActionKind }

type noticeExpiredMsg struct{}

type nudgeTimerMsg struct{}

type queueTickMsg time.Time

type playedTickMsg time.Time

type panelTickMsg time.Time
